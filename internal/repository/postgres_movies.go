package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog-service/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := p.db.QueryRow(ctx, `SELECT count(*) FROM movies`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, error) {
	query := `SELECT id, name, date, score, overview
		FROM movies
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Name,
			&movie.Date,
			&movie.Score,
			&movie.Overview,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT m.id, m.name, m.date, m.score, m.overview, m.status, m.budget, m.revenue,
			c.id, c.code, c.name
		FROM movies m
		JOIN countries c ON m.country_id = c.id
		WHERE m.id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Name,
		&movie.Date,
		&movie.Score,
		&movie.Overview,
		&movie.Status,
		&movie.Budget,
		&movie.Revenue,
		&movie.Country.ID,
		&movie.Country.Code,
		&movie.Country.Name,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	genres, err := p.retrieveGenres(ctx, id)
	if err != nil {
		return nil, err
	}

	actors, err := p.retrieveActors(ctx, id)
	if err != nil {
		return nil, err
	}

	languages, err := p.retrieveLanguages(ctx, id)
	if err != nil {
		return nil, err
	}

	movie.Genres = genres
	movie.Actors = actors
	movie.Languages = languages

	return &movie, nil
}

func (p *PostgresMovieRepository) retrieveGenres(ctx context.Context, movieId int) ([]domain.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN movie_genres mg ON g.id = mg.genre_id
		WHERE mg.movie_id = $1
		ORDER BY g.id
	`

	rows, err := p.db.Query(ctx, query, movieId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)

	for rows.Next() {
		var genre domain.Genre

		err := rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

func (p *PostgresMovieRepository) retrieveActors(ctx context.Context, movieId int) ([]domain.Actor, error) {
	query := `
		SELECT a.id, a.name
		FROM actors a
		JOIN movie_actors ma ON a.id = ma.actor_id
		WHERE ma.movie_id = $1
		ORDER BY a.id
	`

	rows, err := p.db.Query(ctx, query, movieId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actors := make([]domain.Actor, 0)

	for rows.Next() {
		var actor domain.Actor

		err := rows.Scan(&actor.ID, &actor.Name)
		if err != nil {
			return nil, err
		}

		actors = append(actors, actor)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return actors, nil
}

func (p *PostgresMovieRepository) retrieveLanguages(ctx context.Context, movieId int) ([]domain.Language, error) {
	query := `
		SELECT l.id, l.name
		FROM languages l
		JOIN movie_languages ml ON l.id = ml.language_id
		WHERE ml.movie_id = $1
		ORDER BY l.id
	`

	rows, err := p.db.Query(ctx, query, movieId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := make([]domain.Language, 0)

	for rows.Next() {
		var language domain.Language

		err := rows.Scan(&language.ID, &language.Name)
		if err != nil {
			return nil, err
		}

		languages = append(languages, language)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return languages, nil
}

// Create persists the movie and lazily creates its country, genres, actors and
// languages inside a single transaction. The unique index on (name, date) is
// the backstop against concurrent identical creates: a violation surfaces as
// domain.ErrDuplicateMovie, same as the pre-insert check.
func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var exists bool

		err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM movies WHERE name = $1 AND date = $2)`,
			movie.Name,
			movie.Date).Scan(&exists)
		if err != nil {
			return err
		}

		if exists {
			return domain.ErrDuplicateMovie
		}

		err = p.resolveCountry(ctx, tx, &movie.Country)
		if err != nil {
			return err
		}

		for i := range movie.Genres {
			movie.Genres[i].ID, err = resolveLookup(ctx, tx, "genres", movie.Genres[i].Name)
			if err != nil {
				return err
			}
		}

		for i := range movie.Actors {
			movie.Actors[i].ID, err = resolveLookup(ctx, tx, "actors", movie.Actors[i].Name)
			if err != nil {
				return err
			}
		}

		for i := range movie.Languages {
			movie.Languages[i].ID, err = resolveLookup(ctx, tx, "languages", movie.Languages[i].Name)
			if err != nil {
				return err
			}
		}

		query := `
			INSERT INTO movies (name, date, score, overview, status, budget, revenue, country_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`

		err = tx.QueryRow(
			ctx,
			query,
			movie.Name,
			movie.Date,
			movie.Score,
			movie.Overview,
			movie.Status,
			movie.Budget,
			movie.Revenue,
			movie.Country.ID).Scan(&movie.ID)

		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateMovie
			}

			return err
		}

		genreRows := make([][]any, 0, len(movie.Genres))
		for _, genre := range movie.Genres {
			genreRows = append(genreRows, []any{movie.ID, genre.ID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_genres"},
			[]string{"movie_id", "genre_id"},
			pgx.CopyFromRows(genreRows),
		)
		if err != nil {
			return err
		}

		actorRows := make([][]any, 0, len(movie.Actors))
		for _, actor := range movie.Actors {
			actorRows = append(actorRows, []any{movie.ID, actor.ID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_actors"},
			[]string{"movie_id", "actor_id"},
			pgx.CopyFromRows(actorRows),
		)
		if err != nil {
			return err
		}

		languageRows := make([][]any, 0, len(movie.Languages))
		for _, language := range movie.Languages {
			languageRows = append(languageRows, []any{movie.ID, language.ID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_languages"},
			[]string{"movie_id", "language_id"},
			pgx.CopyFromRows(languageRows),
		)
		if err != nil {
			return err
		}

		return nil
	})
}

// resolveCountry finds the country by code, creating it without a name on
// first reference.
func (p *PostgresMovieRepository) resolveCountry(ctx context.Context, tx pgx.Tx, country *domain.Country) error {
	err := tx.QueryRow(
		ctx,
		`SELECT id, name FROM countries WHERE code = $1`,
		country.Code).Scan(&country.ID, &country.Name)

	if err == nil || !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// The no-op DO UPDATE makes RETURNING yield the existing row when a
	// concurrent transaction creates the same code first.
	query := `
		INSERT INTO countries (code)
		VALUES ($1)
		ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		RETURNING id
	`

	country.Name = nil

	return tx.QueryRow(ctx, query, country.Code).Scan(&country.ID)
}

// resolveLookup finds a genre, actor or language by name, creating it on
// first reference. The table name is always one of the fixed lookup tables,
// never user input.
func resolveLookup(ctx context.Context, tx pgx.Tx, table, name string) (int, error) {
	var id int

	err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table), name).Scan(&id)
	if err == nil {
		return id, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, table)

	err = tx.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update applies the non-nil fields of the update to the movie's scalar
// columns, leaving everything else untouched.
func (p *PostgresMovieRepository) Update(ctx context.Context, id int, update domain.MovieUpdate) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT name, date, score, overview, status, budget, revenue
			FROM movies
			WHERE id = $1
			FOR UPDATE
		`

		var movie domain.Movie

		err := tx.QueryRow(ctx, query, id).Scan(
			&movie.Name,
			&movie.Date,
			&movie.Score,
			&movie.Overview,
			&movie.Status,
			&movie.Budget,
			&movie.Revenue,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if update.Name != nil {
			movie.Name = *update.Name
		}
		if update.Date != nil {
			movie.Date = *update.Date
		}
		if update.Score != nil {
			movie.Score = *update.Score
		}
		if update.Overview != nil {
			movie.Overview = *update.Overview
		}
		if update.Status != nil {
			movie.Status = *update.Status
		}
		if update.Budget != nil {
			movie.Budget = *update.Budget
		}
		if update.Revenue != nil {
			movie.Revenue = *update.Revenue
		}

		query = `
			UPDATE movies
			SET name = $1, date = $2, score = $3, overview = $4, status = $5, budget = $6, revenue = $7
			WHERE id = $8
		`

		_, err = tx.Exec(
			ctx,
			query,
			movie.Name,
			movie.Date,
			movie.Score,
			movie.Overview,
			movie.Status,
			movie.Budget,
			movie.Revenue,
			id,
		)

		if err != nil && isUniqueViolation(err) {
			return domain.ErrDuplicateMovie
		}

		return err
	})
}

// Delete removes the movie. Its link rows go with it via ON DELETE CASCADE;
// the shared lookup entities stay.
func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
