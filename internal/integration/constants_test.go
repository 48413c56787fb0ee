package integration_test

const (
	TestMovieName     = "Inception"
	TestMovieDate     = "2010-07-16"
	TestMovieScore    = 86.5
	TestMovieOverview = "A thief enters dreams to plant an idea."
	TestMovieStatus   = "Released"
	TestMovieBudget   = 160000000.0
	TestMovieRevenue  = 825532764.0
	TestMovieCountry  = "US"
)

var (
	TestMovieGenres    = []string{"Action", "Sci-Fi"}
	TestMovieActors    = []string{"Leonardo DiCaprio"}
	TestMovieLanguages = []string{"English"}
)
