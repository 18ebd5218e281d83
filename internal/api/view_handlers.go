package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/poezjaapp/poezja-server/internal/http/response"
	"github.com/poezjaapp/poezja-server/internal/service"
)

// handleRecordView records one view of a poem. Public, rate limited
// per IP by the middleware in front of it.
func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	var req service.RecordViewRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	view, err := s.services.Stats.RecordView(r.Context(), req, getClientIP(r), r.UserAgent())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]int64{"id": view.ID}, s.logger)
}
