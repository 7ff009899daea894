package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SajidCurious/starflix/internal/httpx"
)

type Server struct {
	Router *chi.Mux
}

// New assembles the shared router. The mounter adds the /api routes; the
// process lifecycle around the router (long-lived listener, test server)
// stays outside so every deployment shape serves identical routing.
func New(mount func(chi.Router)) *Server {
	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(httpx.AccessLog)
	r.Use(httpx.Recover)
	r.Use(httpx.CORS)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusNotFound, "API endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", mount)
	return &Server{Router: r}
}
