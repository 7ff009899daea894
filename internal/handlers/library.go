package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SajidCurious/starflix/internal/httpx"
	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

// LibraryHandler serves one user-owned list. It is mounted twice, once for
// favourites and once for watchlist; the contract is identical.
type LibraryHandler struct {
	Users UserStore
	Lib   LibraryStore
	Owner func(http.Handler) http.Handler
	Prod  bool
}

func NewLibraryHandler(users UserStore, lib LibraryStore, owner func(http.Handler) http.Handler, prod bool) *LibraryHandler {
	return &LibraryHandler{Users: users, Lib: lib, Owner: owner, Prod: prod}
}

func (h *LibraryHandler) Routes(r chi.Router) {
	// The owner check must be inline: chi fills route parameters when the
	// route matches, after router-level middleware has already run, so a
	// router-level check would read an empty externalId.
	if h.Owner != nil {
		r = r.With(h.Owner)
	}
	r.Get("/{externalId}", h.list)
	r.Post("/{externalId}", h.add)
	r.Delete("/{externalId}/{itemId}", h.remove)
}

func (h *LibraryHandler) list(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	user, err := h.Users.ByExternalID(r.Context(), externalID)
	if errors.Is(err, store.ErrNotFound) {
		// A user we have never seen simply has an empty list.
		httpx.OK(w, map[string]any{h.Lib.Name(): []models.LibraryEntry{}})
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	entries, err := h.Lib.List(r.Context(), user.ID)
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{h.Lib.Name(): entries})
}

func (h *LibraryHandler) add(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	type bodyT struct {
		Item    models.LibraryEntry `json:"item"`
		Profile store.Profile       `json:"profile"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if b.Item.MovieID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "item id is required")
		return
	}

	user, err := h.Users.GetOrCreate(r.Context(), externalID, b.Profile)
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	err = h.Lib.Add(r.Context(), user.ID, b.Item)
	if errors.Is(err, store.ErrDuplicate) {
		httpx.Fail(w, http.StatusBadRequest, "already in "+h.Lib.Name())
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	msg := "Added to " + h.Lib.Name()
	if title := b.Item.DisplayTitle(); title != "" {
		msg = fmt.Sprintf("Added %q to %s", title, h.Lib.Name())
	}
	httpx.OK(w, map[string]any{"message": msg})
}

func (h *LibraryHandler) remove(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "item id must be an integer")
		return
	}

	user, err := h.Users.ByExternalID(r.Context(), externalID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	// Idempotent: removing an item that was never added still succeeds.
	if err := h.Lib.Remove(r.Context(), user.ID, itemID); err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"message": "Removed from " + h.Lib.Name()})
}
