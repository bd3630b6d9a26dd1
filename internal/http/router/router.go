// Package router wires the HTTP routes and middleware.
package router

import (
	"net/http"
	"time"

	"github.com/aanand-mishra/schools-api/internal/http/handlers/school"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds a whole request, store wait included.
const requestTimeout = 30 * time.Second

// New returns the application router.
//
// Route table:
//
//	GET  /             → health check
//	POST /addSchool    → create a school
//	GET  /listSchools  → all schools ordered by distance from ?lat&lng
func New(loc school.Locator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors)

	r.Get("/", school.Health())
	r.Post("/addSchool", school.New(loc))
	r.Get("/listSchools", school.GetNearby(loc))

	return r
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
