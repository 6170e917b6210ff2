package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/sdelicata/dropbox-team-relay/pkg/dropbox"
)

func handlerReadiness(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, struct{}{})
}

func (s *Server) handlerAuthorize(w http.ResponseWriter, r *http.Request) {
	respondWithText(w, http.StatusOK, "Visit this URL to authorize:\n"+s.api.AuthorizationURL())
}

func (s *Server) handlerCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, r, http.StatusBadRequest, "Missing code parameter")
		return
	}

	body, err := s.api.ExchangeCode(r.Context(), code)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithText(w, http.StatusOK, "Access Token Response:\n"+string(body))
}

func (s *Server) handlerPlanLicense(w http.ResponseWriter, r *http.Request) {
	pl, err := s.api.PlanAndLicense(r.Context(), tokenFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithText(w, http.StatusOK, pl.String())
}

// relay adapts a pass-through Dropbox call into a handler that returns the
// upstream body unchanged.
func (s *Server) relay(call func(context.Context, string) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := call(r.Context(), tokenFromContext(r.Context()))
		if err != nil {
			s.fail(w, r, err)
			return
		}

		respondWithRaw(w, http.StatusOK, body)
	}
}

// fail maps a client error to a response. Upstream failures become 502 and
// keep the Dropbox status and body in the message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *dropbox.APIError

	switch {
	case errors.As(err, &apiErr):
		hlog.FromRequest(r).Warn().
			Str("endpoint", apiErr.Endpoint).
			Int("upstream_status", apiErr.StatusCode).
			Msg("Dropbox call failed")
		respondWithError(w, r, http.StatusBadGateway, apiErr.Error())
	case errors.Is(err, dropbox.ErrMissingToken):
		respondWithError(w, r, http.StatusUnauthorized, "Missing bearer token")
	case errors.Is(err, dropbox.ErrMissingCode):
		respondWithError(w, r, http.StatusBadRequest, "Missing code parameter")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("relay request failed")
		respondWithError(w, r, http.StatusInternalServerError, "Upstream request failed")
	}
}
