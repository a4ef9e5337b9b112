package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kokorolabs/soulscope/internal/utils"
	"github.com/kokorolabs/soulscope/pkg/dateparse"
	"github.com/kokorolabs/soulscope/pkg/zodiac"
)

type DiagnoseRequest struct {
	Birthdate string `json:"birthdate"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "request body must be JSON with a birthdate field"})
		return
	}

	date, err := dateparse.Normalize(strings.TrimSpace(req.Birthdate))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	tables, err := s.Store.Tables()
	if err != nil {
		// The LoadError names the offending file path; keep that in
		// the log for operators and off the wire.
		utils.Log.Errorf("master data load failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "master data is unavailable; contact the service operator"})
		return
	}

	diagnosis, err := zodiac.Resolve(date, tables)
	if err != nil {
		var mapErr *zodiac.MappingError
		switch {
		case errors.Is(err, zodiac.ErrOutOfRange):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		case errors.As(err, &mapErr):
			utils.Log.Errorf("diagnosis for %s failed: %v", date, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		default:
			utils.Log.Errorf("diagnosis for %s failed: %v", date, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, diagnosis)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
