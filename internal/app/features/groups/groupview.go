package groups

import (
	"net/http"

	"github.com/tallyhub/tallyhub/internal/app/policy/grouppolicy"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// ServeView handles GET /groups/{groupID}. Members see the group; public
// groups are readable by any authenticated user.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	group, err := h.Groups.GetByID(r.Context(), groupID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if group.Visibility != models.VisibilityPublic {
		if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
			return
		}
	}

	httpjson.Respond(w, http.StatusOK, toResponse(group))
}
