package domain

import (
	"context"
	"time"
)

// MovieStatus is the production status of a movie.
type MovieStatus string

const (
	Rumored        MovieStatus = "Rumored"
	Planned        MovieStatus = "Planned"
	InProduction   MovieStatus = "In Production"
	PostProduction MovieStatus = "Post Production"
	Released       MovieStatus = "Released"
	Canceled       MovieStatus = "Canceled"
)

// MovieStatuses lists every valid production status.
var MovieStatuses = []MovieStatus{Rumored, Planned, InProduction, PostProduction, Released, Canceled}

type Movie struct {
	ID       int
	Name     string
	Date     time.Time
	Score    float64
	Overview string
	Status   MovieStatus
	Budget   float64
	Revenue  float64

	Country   Country
	Genres    []Genre
	Actors    []Actor
	Languages []Language
}

// Country is identified by its code. Countries created lazily during movie
// creation have no name until backfilled.
type Country struct {
	ID   int
	Code string
	Name *string
}

type Genre struct {
	ID   int
	Name string
}

type Actor struct {
	ID   int
	Name string
}

type Language struct {
	ID   int
	Name string
}

// MovieUpdate carries a partial update. Nil fields are left untouched.
type MovieUpdate struct {
	Name     *string
	Date     *time.Time
	Score    *float64
	Overview *string
	Status   *MovieStatus
	Budget   *float64
	Revenue  *float64
}

type MovieRepository interface {
	Count(ctx context.Context) (int, error)
	GetAll(ctx context.Context, pagination Pagination) ([]*Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, id int, update MovieUpdate) error
	Delete(ctx context.Context, id int) error
}
