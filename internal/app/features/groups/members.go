package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhub/tallyhub/internal/app/policy/grouppolicy"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/app/system/inputval"
	"github.com/tallyhub/tallyhub/internal/app/system/normalize"
	"github.com/tallyhub/tallyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeMembers handles GET /groups/{groupID}/members. Member-gated.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
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

	if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
		return
	}

	members, err := h.Members.ListByGroup(r.Context(), groupID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{UID: m.UID, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	httpjson.Respond(w, http.StatusOK, out)
}

type addMemberInput struct {
	UID  string `json:"uid" validate:"required,max=128" label:"User id"`
	Role string `json:"role" validate:"omitempty,oneof=admin member" label:"Role"`
}

// ServeAddMember handles POST /groups/{groupID}/members. Admin-gated; the
// creator role can never be granted, only held by the group's creator.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
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

	if !grouppolicy.IsAdminOrCreator(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only group admins can add members"))
		return
	}

	// The group must still exist; membership rows never outlive their group
	// on this path.
	if _, err := h.Groups.GetByID(r.Context(), groupID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in addMemberInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	in.UID = normalize.QueryParam(in.UID)
	in.Role = normalize.Role(in.Role)
	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}
	if in.Role == "" {
		in.Role = models.RoleMember
	}

	member, err := h.Members.Add(r.Context(), groupID, in.UID, in.Role)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	snap := models.MemberSnapshot{UID: member.UID, Role: member.Role, JoinedAt: member.JoinedAt}
	if err := h.Groups.AppendMemberSnapshot(r.Context(), groupID, snap); err != nil {
		// The authoritative row exists; the display snapshot will be stale
		// until the next membership change.
		h.Log.Warn("member snapshot append failed",
			zap.String("group_id", groupID.Hex()),
			zap.String("uid", member.UID),
			zap.Error(err))
	}

	httpjson.Respond(w, http.StatusCreated, memberResponse{
		UID:      member.UID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	})
}

// ServeRemoveMember handles DELETE /groups/{groupID}/members/{memberUID}.
// Admins can remove anyone but the creator; members can remove themselves.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	targetUID := chi.URLParam(r, "memberUID")
	if targetUID == "" {
		httpjson.Error(w, h.Log, apperr.New(apperr.Invalid, "invalid member id"))
		return
	}

	if targetUID != id.UID {
		if !grouppolicy.IsAdminOrCreator(r.Context(), h.DB, h.Log, groupID, id.UID) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only group admins can remove members"))
			return
		}
	}

	target, err := h.Members.Get(r.Context(), groupID, targetUID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if target.Role == models.RoleCreator {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "the group creator cannot be removed"))
		return
	}

	if err := h.Members.Remove(r.Context(), groupID, targetUID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := h.Groups.RemoveMemberSnapshot(r.Context(), groupID, targetUID); err != nil {
		h.Log.Warn("member snapshot removal failed",
			zap.String("group_id", groupID.Hex()),
			zap.String("uid", targetUID),
			zap.Error(err))
	}

	httpjson.Respond(w, http.StatusNoContent, nil)
}
