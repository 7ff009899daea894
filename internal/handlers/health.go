package handlers

import (
	"net/http"
	"time"

	"github.com/SajidCurious/starflix/internal/httpx"
)

type HealthHandler struct {
	DB      Pinger
	Env     string
	Started time.Time
}

func NewHealthHandler(db Pinger, env string) *HealthHandler {
	return &HealthHandler{DB: db, Env: env, Started: time.Now()}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "Connected"
	if err := h.DB.Ping(r.Context()); err != nil {
		database = "Disconnected"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"message":     "Starflix API is running!",
		"environment": h.Env,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.Started).Seconds(),
		"database":    database,
	})
}
