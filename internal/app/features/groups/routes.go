package groups

import "github.com/go-chi/chi/v5"

// Routes returns the groups subrouter. The activities router is mounted
// beneath each group so activity routes see the {groupID} parameter.
func Routes(h *Handler, activities chi.Router) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/my", h.ServeMine)

	r.Route("/{groupID}", func(r chi.Router) {
		r.Get("/", h.ServeView)
		r.Get("/members", h.ServeMembers)
		r.Post("/members", h.ServeAddMember)
		r.Delete("/members/{memberUID}", h.ServeRemoveMember)
		r.Mount("/activities", activities)
	})

	return r
}
