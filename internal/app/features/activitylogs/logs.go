package activitylogs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tallyhub/tallyhub/internal/app/policy/grouppolicy"
	logstore "github.com/tallyhub/tallyhub/internal/app/store/activitylogs"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/app/system/inputval"
	"github.com/tallyhub/tallyhub/internal/app/system/normalize"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

type createLogInput struct {
	GroupID    string `json:"groupId" validate:"required,objectid" label:"Group id"`
	ActivityID string `json:"activityId" validate:"required,objectid" label:"Activity id"`
	Notes      string `json:"notes" validate:"max=500" label:"Notes"`
}

// ServeCreate handles POST /activity-logs. The caller must be a member of
// the group, and the activity must exist in that group at logging time;
// its name and point value are copied into the entry so later edits to the
// activity never change history.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in createLogInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	in.Notes = normalize.Text(in.Notes)
	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	groupID, _ := primitive.ObjectIDFromHex(in.GroupID)
	activityID, _ := primitive.ObjectIDFromHex(in.ActivityID)

	if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
		return
	}

	// Resolve the activity before writing anything: a missing activity must
	// produce no log entry.
	activity, err := h.Activities.GetByID(r.Context(), groupID, activityID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	entry := models.ActivityLog{
		UserID:       id.UID,
		GroupID:      groupID,
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Points:       activity.PointValue,
		Notes:        in.Notes,
	}

	created, err := h.Logs.Create(r.Context(), entry)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusCreated, toResponse(created))
}

// queryFilter parses the startDate, endDate, and limit query parameters.
// Dates accept RFC 3339 or plain YYYY-MM-DD; a date-only end bound covers
// the whole day. Both bounds are inclusive. A limit that is present but
// not positive falls back to the store default.
func queryFilter(r *http.Request) (logstore.Filter, error) {
	var f logstore.Filter

	if raw := normalize.QueryParam(r.URL.Query().Get("startDate")); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return f, apperr.New(apperr.Invalid, "invalid startDate")
		}
		f.Start = &t
	}
	if raw := normalize.QueryParam(r.URL.Query().Get("endDate")); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return f, apperr.New(apperr.Invalid, "invalid endDate")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
		f.End = &t
	}
	if raw := normalize.QueryParam(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, apperr.New(apperr.Invalid, "invalid limit")
		}
		f.Limit = &n
	}

	return f, nil
}

func parseDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, err
}

// ServeMine handles GET /activity-logs/my. The optional groupId parameter
// narrows the result to one group; the caller must be a member of that
// group or the request is rejected outright.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	f, err := queryFilter(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if raw := normalize.QueryParam(r.URL.Query().Get("groupId")); raw != "" {
		groupID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.New(apperr.Invalid, "invalid groupId"))
			return
		}
		if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
			httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
			return
		}
		f.GroupID = &groupID
	}

	logs, err := h.Logs.QueryByUser(r.Context(), id.UID, f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponses(logs))
}

// ServeGroup handles GET /activity-logs/group/{groupID}: every member's
// entries for one group. Member-gated.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Invalid, "invalid group id"))
		return
	}

	if !grouppolicy.IsMember(r.Context(), h.DB, h.Log, groupID, id.UID) {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you are not a member of this group"))
		return
	}

	f, err := queryFilter(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	logs, err := h.Logs.QueryByGroup(r.Context(), groupID, f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponses(logs))
}

type updateNotesInput struct {
	Notes string `json:"notes" validate:"max=500" label:"Notes"`
}

// ServeUpdateNotes handles PUT /activity-logs/{logID}/notes. Only the
// entry's owner may change its notes; everything else on the entry is
// immutable.
func (h *Handler) ServeUpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	logID, err := logIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateNotesInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	in.Notes = normalize.Text(in.Notes)
	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	entry, err := h.Logs.GetByID(r.Context(), logID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if entry.UserID != id.UID {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you can only edit your own log entries"))
		return
	}

	updated, err := h.Logs.UpdateNotes(r.Context(), logID, in.Notes)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponse(updated))
}

// ServeDelete handles DELETE /activity-logs/{logID}. Owner only.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	logID, err := logIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	entry, err := h.Logs.GetByID(r.Context(), logID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if entry.UserID != id.UID {
		httpjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you can only delete your own log entries"))
		return
	}

	if err := h.Logs.Delete(r.Context(), logID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
