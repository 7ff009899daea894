package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SajidCurious/starflix/internal/httpx"
	"github.com/SajidCurious/starflix/internal/store"
	"github.com/SajidCurious/starflix/internal/validate"
)

type UserHandler struct {
	Users UserStore
	Prod  bool
}

func NewUserHandler(users UserStore, prod bool) *UserHandler {
	return &UserHandler{Users: users, Prod: prod}
}

// Resolve handles POST /api/user: get-or-create the internal user record
// for an identity-provider account. Calling it twice with the same external
// id yields the same record with refreshed profile fields.
func (h *UserHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	type bodyT struct {
		ExternalID string `json:"externalId" validate:"required"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		Avatar     string `json:"avatar"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Map(b); errs != nil {
		httpx.Error(w, http.StatusBadRequest, validate.Flatten(errs))
		return
	}
	u, err := h.Users.GetOrCreate(r.Context(), b.ExternalID, store.Profile{
		Email:  b.Email,
		Name:   b.Name,
		Avatar: b.Avatar,
	})
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"user": u})
}
