package server

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// StateResponse is the body of GET /state.
type StateResponse struct {
	BankOpen bool `json:"bankOpen"`
}

// getState reads the bank flag fresh for every request.
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	body, err := s.marshal(StateResponse{BankOpen: s.source.BankOpen()})
	if err != nil {
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to encode state")
		writeError(w, http.StatusInternalServerError, ErrCodeEncodeFailed)
		return
	}

	if err := writeBody(w, http.StatusOK, body); err != nil {
		// Headers are already out; the client sees a truncated response.
		s.log.Debug().Err(err).Msg("failed to write state response")
	}
}
