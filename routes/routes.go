package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app, middlewares.Authenticated(app.TokenSecret)))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Authenticated(app.TokenSecret)).
		Mount("/app", servePrivateFiles(app, "/app"))
	root.Mount("/", servePublicFiles(app))

	return root
}

// apiRouter takes the authentication middleware as a parameter so that tests
// can stand in for the bearer token check.
func apiRouter(app app.App, authenticated func(http.Handler) http.Handler) http.Handler {
	api := chi.NewRouter()

	api.Post("/signup", Signup(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Get("/onboarding/questions", GetQuestions(app))

	api.Group(func(r chi.Router) {
		r.Use(authenticated)

		r.Post("/onboarding/save", SaveOnboarding(app))
		r.Post("/onboarding/clear", ClearOnboarding(app))
		r.Get("/onboarding/status", GetOnboardingStatus(app))

		r.Get("/matches", ListMatches(app))
		r.Post("/matches/{id}/favorite", ToggleFavorite(app))
		r.Post("/matches/{id}/shortlist", ToggleShortlist(app))
		r.Get("/favorites", ListFavorites(app))
		r.Get("/filters", GetFilters(app))

		r.Route("/counseling/{university}", func(r chi.Router) {
			r.Get("/", GetCounseling(app))
			r.Put("/", PutCounseling(app))
			r.Put("/status", PutCounselingStatus(app))
			r.Put("/notes", PutCounselingNotes(app))
			r.Put("/deadline", PutCounselingDeadline(app))
			r.Put("/checklist", PutCounselingChecklist(app))
		})
	})

	return api
}

func servePublicFiles(app app.App) http.Handler {
	return http.FileServer(http.Dir(app.PublicDir))
}

func servePrivateFiles(app app.App, path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir(app.PrivateDir)))
}
