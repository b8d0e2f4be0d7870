package groups

import (
	"net/http"

	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
)

// ServeMine handles GET /groups/my: every group the caller belongs to,
// newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	groups, err := h.Groups.FindByUser(r.Context(), id.UID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toResponse(g))
	}
	httpjson.Respond(w, http.StatusOK, out)
}
