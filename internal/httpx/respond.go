package httpx

import (
	"encoding/json"
	"net/http"
)

// Every response carries the {success: bool, ...} envelope the frontend
// expects. Handlers pass maps or structs that already include the payload
// keys; these helpers only fix the status line and content type.

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 success envelope with the given payload fields.
func OK(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Error writes {success:false, error: msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"success": false, "error": msg})
}

// Fail writes {success:false, message: msg}. Used for soft failures such as
// a duplicate list entry, which the UI renders as a notice rather than an
// error state.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"success": false, "message": msg})
}
