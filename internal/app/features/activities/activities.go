package activities

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tallyhub/tallyhub/internal/app/policy/grouppolicy"
	activitystore "github.com/tallyhub/tallyhub/internal/app/store/activities"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/app/system/inputval"
	"github.com/tallyhub/tallyhub/internal/app/system/normalize"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// requireMember resolves the caller and confirms group membership.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request) (authn.Identity, primitive.ObjectID, bool) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return authn.Identity{}, primitive.NilObjectID, false
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return authn.Identity{}, primitive.NilObjectID, false
	}

	if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
		return authn.Identity{}, primitive.NilObjectID, false
	}
	return id, groupID, true
}

// requireAdmin resolves the caller and confirms they can manage the
// group's activities.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (authn.Identity, primitive.ObjectID, bool) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return authn.Identity{}, primitive.NilObjectID, false
	}
	groupID, err := groupIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return authn.Identity{}, primitive.NilObjectID, false
	}

	if !grouppolicy.IsAdminOrCreator(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only group admins can manage activities"))
		return authn.Identity{}, primitive.NilObjectID, false
	}
	return id, groupID, true
}

// ServeList handles GET /groups/{groupID}/activities.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	activities, err := h.Activities.ListByGroup(r.Context(), groupID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toResponse(a))
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// ServeGet handles GET /groups/{groupID}/activities/{activityID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.requireMember(w, r)
	if !ok {
		return
	}
	activityID, err := activityIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.Activities.GetByID(r.Context(), groupID, activityID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponse(a))
}

type createActivityInput struct {
	Name        string `json:"name" validate:"required,min=3,max=150" label:"Activity name"`
	Description string `json:"description" validate:"max=1000" label:"Description"`
	PointValue  int    `json:"pointValue" validate:"required,min=1,max=10000" label:"Point value"`
}

// ServeCreate handles POST /groups/{groupID}/activities. Admin-gated.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	id, groupID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var in createActivityInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	in.Name = normalize.Name(in.Name)
	in.Description = normalize.Text(in.Description)
	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	created, err := h.Activities.Create(r.Context(), models.Activity{
		GroupID:     groupID,
		Name:        in.Name,
		Description: in.Description,
		PointValue:  in.PointValue,
		CreatedBy:   id.UID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusCreated, toResponse(created))
}

type updateActivityInput struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=150" label:"Activity name"`
	Description *string `json:"description" validate:"omitempty,max=1000" label:"Description"`
	PointValue  *int    `json:"pointValue" validate:"omitempty,min=1,max=10000" label:"Point value"`
}

// ServeUpdate handles PUT /groups/{groupID}/activities/{activityID}.
// Admin-gated. The response reflects the stored document after the write,
// so concurrent changes by another admin are returned rather than the
// caller's own input echoed back. Existing log entries are not touched.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	activityID, err := activityIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateActivityInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if in.Name != nil {
		n := normalize.Name(*in.Name)
		in.Name = &n
	}
	if in.Description != nil {
		d := normalize.Text(*in.Description)
		in.Description = &d
	}
	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	updated, err := h.Activities.Apply(r.Context(), groupID, activityID, activitystore.Update{
		Name:        in.Name,
		Description: in.Description,
		PointValue:  in.PointValue,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, toResponse(updated))
}

// ServeDelete handles DELETE /groups/{groupID}/activities/{activityID}.
// Admin-gated. Log entries referencing the activity keep their denormalized
// name and points.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, groupID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	activityID, err := activityIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Activities.Delete(r.Context(), groupID, activityID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
