package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog-service/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	CountFunc   func(ctx context.Context) (int, error)
	GetAllFunc  func(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Movie, error)
	CreateFunc  func(ctx context.Context, movie *domain.Movie) error
	UpdateFunc  func(ctx context.Context, id int, update domain.MovieUpdate) error
	DeleteFunc  func(ctx context.Context, id int) error
}

func (m *MockMovieRepo) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, error) {
	return m.GetAllFunc(ctx, pagination)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) Update(ctx context.Context, id int, update domain.MovieUpdate) error {
	return m.UpdateFunc(ctx, id, update)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
