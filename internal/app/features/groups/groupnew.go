package groups

import (
	"net/http"

	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/app/system/inputval"
	"github.com/tallyhub/tallyhub/internal/app/system/normalize"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

type createGroupInput struct {
	Name        string   `json:"name" validate:"required,min=3,max=100" label:"Group name"`
	Description string   `json:"description" validate:"max=500" label:"Description"`
	Visibility  string   `json:"visibility" validate:"omitempty,visibility" label:"Visibility"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=20" label:"Tags"`
}

// ServeCreate handles POST /groups. The caller becomes the group's creator
// and its first member in one atomic step.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in createGroupInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	in.Name = normalize.Name(in.Name)
	in.Description = normalize.Text(in.Description)
	in.Visibility = normalize.Visibility(in.Visibility)
	in.Tags = normalize.Tags(in.Tags)

	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	if in.Visibility == "" {
		in.Visibility = models.VisibilityPrivate
	}

	created, err := h.Groups.Create(r.Context(), models.Group{
		Name:        in.Name,
		Description: in.Description,
		Visibility:  in.Visibility,
		Tags:        in.Tags,
		CreatedBy:   id.UID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusCreated, toResponse(created))
}
