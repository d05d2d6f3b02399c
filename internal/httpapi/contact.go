package httpapi

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"dp-catalog/internal/enquiry"
)

const msgInvalidForm = "Invalid form data"

type contactResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EnquiryID    string `json:"enquiryId,omitempty"`
	ResetAfterMs int64  `json:"resetAfterMs,omitempty"`
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, errorBody{Message: "Request body too large"})
			return
		}
		writeJSON(w, r, http.StatusBadRequest, errorBody{Message: msgInvalidForm})
		return
	}

	req, err := enquiry.Decode(body)
	if err != nil {
		s.logger.Debug("undecodable enquiry",
			zap.String("request_id", RequestIDFromContext(r.Context())), zap.Error(err))
		writeJSON(w, r, http.StatusBadRequest, errorBody{Message: msgInvalidForm})
		return
	}

	out := s.enquiries.Submit(r.Context(), req)
	switch out.State {
	case enquiry.Sent:
		writeJSON(w, r, http.StatusOK, contactResponse{
			Success:      true,
			Message:      out.Message,
			EnquiryID:    out.ID,
			ResetAfterMs: out.ResetAfter.Milliseconds(),
		})
	case enquiry.Rejected:
		writeJSON(w, r, http.StatusBadRequest, errorBody{Message: out.Message})
	default:
		writeJSON(w, r, http.StatusInternalServerError, contactResponse{Message: out.Message})
	}
}
