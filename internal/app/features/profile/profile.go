package profile

import (
	"net/http"
	"time"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/httpjson"
	"github.com/tallyhub/tallyhub/internal/app/system/inputval"
	"github.com/tallyhub/tallyhub/internal/app/system/normalize"
	profilestore "github.com/tallyhub/tallyhub/internal/app/store/profiles"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

type profileResponse struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLogin   time.Time `json:"lastLogin"`
}

func toResponse(p models.Profile) profileResponse {
	return profileResponse{
		UID:         p.UID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PhotoURL:    p.PhotoURL,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		LastLogin:   p.LastLogin,
	}
}

// ServeGet handles GET /users/profile. The profile is created lazily by the
// authentication hook, so a missing document here means the hook has not
// landed yet; the claims-backed identity still answers the request.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	p, err := h.Profiles.GetByUID(r.Context(), id.UID)
	if apperr.IsNotFound(err) {
		now := time.Now().UTC()
		p = models.Profile{
			UID:         id.UID,
			DisplayName: id.Name,
			Email:       id.Email,
			PhotoURL:    id.Picture,
			CreatedAt:   now,
			LastLogin:   now,
		}
	} else if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, toResponse(p))
}

type updateProfileInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=100" label:"Display name"`
	Description *string `json:"description" validate:"omitempty,max=500" label:"Description"`
	PhotoURL    *string `json:"photoURL" validate:"omitempty,httpurl" label:"Photo URL"`
}

// ServeUpdate handles PUT /users/profile.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := authn.CurrentIdentity(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var in updateProfileInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if in.DisplayName != nil {
		n := normalize.Name(*in.DisplayName)
		in.DisplayName = &n
	}
	if in.Description != nil {
		d := normalize.Text(*in.Description)
		in.Description = &d
	}

	if result := inputval.Validate(in); result.HasErrors() {
		httpjson.FieldError(w, result.First())
		return
	}

	// First write may land before the auth hook created the profile; make
	// sure the document exists.
	if err := h.Profiles.Ensure(r.Context(), id.UID, id.Name, id.Email, id.Picture); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	p, err := h.Profiles.Apply(r.Context(), id.UID, profilestore.Update{
		DisplayName: in.DisplayName,
		Description: in.Description,
		PhotoURL:    in.PhotoURL,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, toResponse(p))
}
