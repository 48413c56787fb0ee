package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/movie-catalog-service/api"
	"github.com/metinatakli/movie-catalog-service/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	params, err := parseListMoviesParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	pagination := toPagination(params)

	totalItems, err := app.movieRepo.Count(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if totalItems == 0 {
		app.errorResponse(w, r, http.StatusNotFound, "No movies found.")
		return
	}

	metadata := domain.NewMetadata(totalItems, pagination.Page, pagination.PerPage)

	if pagination.Page > metadata.TotalPages {
		app.errorResponse(w, r, http.StatusNotFound, "Page out of range")
		return
	}

	movies, err := app.movieRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toMovieListResponse(movies, metadata)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toMovieDetailResponse(movie)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.MovieCreateRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input)

	err = app.movieRepo.Create(r.Context(), &movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateMovie):
			message := fmt.Sprintf("A movie with the name '%s' and release date '%s' already exists.",
				input.Name, input.Date.Format("2006-01-02"))
			app.errorResponse(w, r, http.StatusConflict, message)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toMovieDetailResponse(&movie)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.MovieUpdateRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	err = app.movieRepo.Update(r.Context(), id, toMovieUpdate(input))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, "Movie with the given ID was not found.")
		case errors.Is(err, domain.ErrDuplicateMovie):
			app.errorResponse(w, r, http.StatusConflict, domain.ErrDuplicateMovie.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.MovieUpdateResponse{Detail: "Movie updated successfully."}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func parseListMoviesParams(r *http.Request) (api.ListMoviesParams, error) {
	var params api.ListMoviesParams

	page, err := readQueryInt(r, "page")
	if err != nil {
		return params, err
	}

	perPage, err := readQueryInt(r, "per_page")
	if err != nil {
		return params, err
	}

	params.Page = page
	params.PerPage = perPage

	return params, nil
}

func toPagination(params api.ListMoviesParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PerPage != nil {
		pagination.PerPage = *params.PerPage
	}

	return pagination
}

func (app *Application) toMovieListResponse(movies []*domain.Movie, metadata *domain.Metadata) api.MovieListResponse {
	summaries := make([]api.MovieSummary, len(movies))
	for i, movie := range movies {
		summaries[i] = toMovieSummary(movie)
	}

	resp := api.MovieListResponse{
		Movies:     summaries,
		TotalPages: metadata.TotalPages,
		TotalItems: metadata.TotalItems,
	}

	if metadata.CurrentPage > 1 {
		resp.PrevPage = app.pageLink(metadata.CurrentPage-1, metadata.PerPage)
	}
	if metadata.CurrentPage < metadata.TotalPages {
		resp.NextPage = app.pageLink(metadata.CurrentPage+1, metadata.PerPage)
	}

	return resp
}

func (app *Application) pageLink(page, perPage int) *string {
	link := fmt.Sprintf("%s/movies/?page=%d&per_page=%d", app.config.BaseURL, page, perPage)

	return &link
}

func toMovieSummary(movie *domain.Movie) api.MovieSummary {
	if movie == nil {
		return api.MovieSummary{}
	}

	return api.MovieSummary{
		Id:       movie.ID,
		Name:     movie.Name,
		Date:     types.Date{Time: movie.Date},
		Score:    movie.Score,
		Overview: movie.Overview,
	}
}

func toMovieDetailResponse(movie *domain.Movie) api.MovieDetailResponse {
	resp := api.MovieDetailResponse{
		Id:       movie.ID,
		Name:     movie.Name,
		Date:     types.Date{Time: movie.Date},
		Score:    movie.Score,
		Overview: movie.Overview,
		Status:   string(movie.Status),
		Budget:   movie.Budget,
		Revenue:  movie.Revenue,
		Country: api.CountryResponse{
			Id:   movie.Country.ID,
			Code: movie.Country.Code,
			Name: movie.Country.Name,
		},
		Genres:    make([]api.GenreResponse, 0, len(movie.Genres)),
		Actors:    make([]api.ActorResponse, 0, len(movie.Actors)),
		Languages: make([]api.LanguageResponse, 0, len(movie.Languages)),
	}

	for _, genre := range movie.Genres {
		resp.Genres = append(resp.Genres, api.GenreResponse{Id: genre.ID, Name: genre.Name})
	}
	for _, actor := range movie.Actors {
		resp.Actors = append(resp.Actors, api.ActorResponse{Id: actor.ID, Name: actor.Name})
	}
	for _, language := range movie.Languages {
		resp.Languages = append(resp.Languages, api.LanguageResponse{Id: language.ID, Name: language.Name})
	}

	return resp
}

func toDomainMovie(input api.MovieCreateRequest) domain.Movie {
	movie := domain.Movie{
		Name:     input.Name,
		Date:     input.Date.Time,
		Score:    input.Score,
		Overview: input.Overview,
		Status:   domain.MovieStatus(input.Status),
		Budget:   input.Budget,
		Revenue:  input.Revenue,
		Country:  domain.Country{Code: input.Country},
	}

	for _, name := range dedupeNames(input.Genres) {
		movie.Genres = append(movie.Genres, domain.Genre{Name: name})
	}
	for _, name := range dedupeNames(input.Actors) {
		movie.Actors = append(movie.Actors, domain.Actor{Name: name})
	}
	for _, name := range dedupeNames(input.Languages) {
		movie.Languages = append(movie.Languages, domain.Language{Name: name})
	}

	return movie
}

// dedupeNames drops repeated names while keeping the original order, so a
// payload listing the same genre twice produces a single relation link.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}

		seen[name] = true
		result = append(result, name)
	}

	return result
}

func toMovieUpdate(input api.MovieUpdateRequest) domain.MovieUpdate {
	update := domain.MovieUpdate{
		Name:     input.Name,
		Score:    input.Score,
		Overview: input.Overview,
		Budget:   input.Budget,
		Revenue:  input.Revenue,
	}

	if input.Date != nil {
		update.Date = &input.Date.Time
	}
	if input.Status != nil {
		status := domain.MovieStatus(*input.Status)
		update.Status = &status
	}

	return update
}
