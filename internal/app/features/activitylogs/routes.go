package activitylogs

import "github.com/go-chi/chi/v5"

// Routes returns the activity-log subrouter, mounted under /activity-logs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/my", h.ServeMine)
	r.Get("/group/{groupID}", h.ServeGroup)
	r.Put("/{logID}/notes", h.ServeUpdateNotes)
	r.Delete("/{logID}", h.ServeDelete)

	return r
}
