package profile

import "github.com/go-chi/chi/v5"

// Routes returns the profile subrouter, mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/profile", h.ServeGet)
	r.Put("/profile", h.ServeUpdate)
	return r
}
