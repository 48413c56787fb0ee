package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func prepareRequest(method, path string, body io.Reader) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

// resetCatalog wipes every catalog table and restarts the id sequences so each
// scenario can rely on predictable ids.
func resetCatalog(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(),
		`TRUNCATE movie_genres, movie_actors, movie_languages, movies, genres, actors, languages, countries RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err)
}

// seedMovie inserts a bare movie row, creating the US country row if needed.
func seedMovie(t testing.TB, db *pgxpool.Pool, name, date string) {
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO countries (code, name) VALUES ('US', 'United States') ON CONFLICT (code) DO NOTHING`)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`INSERT INTO movies (name, date, score, overview, status, budget, revenue, country_id)
		 VALUES ($1, $2, 70, 'Seeded overview', 'Released', 1000000, 2000000,
		         (SELECT id FROM countries WHERE code = 'US'))`,
		name, date)
	require.NoError(t, err)
}

func countRows(t testing.TB, db *pgxpool.Pool, table string) int {
	var count int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&count)
	require.NoError(t, err)

	return count
}
