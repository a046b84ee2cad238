package evaldto

import (
	"github.com/awmpietro/golang-dmn-decision-engine/internal/app"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
)

type EvaluateRequest struct {
	ModelXML string         `json:"model_xml"`
	Decision string         `json:"decision"`
	Input    map[string]any `json:"input"`
	Debug    bool           `json:"debug,omitempty"`
}

func (r EvaluateRequest) ToApp() app.EvaluateRequest {
	return app.EvaluateRequest{
		ModelXML:   r.ModelXML,
		DecisionID: r.Decision,
		Input:      r.Input,
		Debug:      r.Debug,
	}
}

type EvaluateResponse struct {
	EvaluationID string                   `json:"evaluation_id"`
	Result       any                      `json:"result"`
	Warnings     []decision.Warning       `json:"warnings"`
	Trace        *decision.ExecutionTrace `json:"trace,omitempty"`
	Model        *app.ModelInfo           `json:"model,omitempty"`
}

func NewEvaluateResponse(ev *app.Evaluation) EvaluateResponse {
	warnings := ev.Warnings
	if warnings == nil {
		warnings = []decision.Warning{}
	}
	return EvaluateResponse{
		EvaluationID: ev.ID,
		Result:       ev.Result,
		Warnings:     warnings,
		Trace:        ev.Trace,
		Model:        ev.Model,
	}
}

type GraphRequest struct {
	ModelXML string `json:"model_xml"`
}

type GraphResponse struct {
	DOT   string         `json:"dot"`
	Model *app.ModelInfo `json:"model,omitempty"`
}

// ErrorBody is the 400 payload. Kind is decision.ErrorKind of the failure.
func ErrorBody(msg string, err error, ev *app.Evaluation) map[string]any {
	body := map[string]any{
		"error":   msg,
		"details": err.Error(),
	}
	if kind := decision.ErrorKind(err); kind != "" {
		body["kind"] = kind
	}
	if ev == nil {
		return body
	}
	if ev.ID != "" {
		body["evaluation_id"] = ev.ID
	}
	if ev.Trace != nil {
		body["trace"] = ev.Trace
	}
	if ev.Model != nil {
		body["model"] = ev.Model
	}
	return body
}
