package activities

import "github.com/go-chi/chi/v5"

// Routes returns the activities subrouter, mounted under
// /groups/{groupID}/activities.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{activityID}", h.ServeGet)
	r.Put("/{activityID}", h.ServeUpdate)
	r.Delete("/{activityID}", h.ServeDelete)

	return r
}
