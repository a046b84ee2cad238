package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/app"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/transport/evaldto"
)

type Handler struct {
	svc app.EvaluateService
}

func NewHandler(svc app.EvaluateService) *Handler {
	return &Handler{svc: svc}
}

// Evaluate and Graph are mounted as POST routes by NewRouter, which answers
// other methods with 405.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var in evaldto.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	ev, err := h.svc.Evaluate(in.ToApp())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, evaldto.ErrorBody("evaluation failed", err, ev))
		return
	}
	writeJSON(w, http.StatusOK, evaldto.NewEvaluateResponse(ev))
}

func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	var in evaldto.GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	dot, info, err := h.svc.ExportGraph(in.ModelXML)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, evaldto.ErrorBody("graph export failed", err, &app.Evaluation{Model: info}))
		return
	}
	writeJSON(w, http.StatusOK, evaldto.GraphResponse{DOT: dot, Model: info})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
