package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// apiResponse is the envelope used for every error and for JSON replies
// produced by the relay itself.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	respondWithJSON(w, r, code, apiResponse{Success: false, Message: msg})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	dat, err := json.Marshal(payload)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	respondWithRaw(w, code, dat)
}

// respondWithRaw writes a body that is already JSON, such as a Dropbox response.
func respondWithRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func respondWithText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(text))
}
