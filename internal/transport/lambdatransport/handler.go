package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/app"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/transport/evaldto"
)

type Handler struct {
	svc app.EvaluateService
}

func NewHandler(svc app.EvaluateService) *Handler {
	return &Handler{svc: svc}
}

// Handle dispatches on the request path: paths ending in /graph export the
// model graph, anything else evaluates a decision.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if strings.HasSuffix(req.RawPath, "/graph") {
		return h.Graph(ctx, req)
	}
	return h.Evaluate(ctx, req)
}

func (h *Handler) Evaluate(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in evaldto.EvaluateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	ev, err := h.svc.Evaluate(in.ToApp())
	if err != nil {
		return jsonResp(http.StatusBadRequest, evaldto.ErrorBody("evaluation failed", err, ev)), nil
	}
	return jsonResp(http.StatusOK, evaldto.NewEvaluateResponse(ev)), nil
}

func (h *Handler) Graph(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in evaldto.GraphRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	dot, info, err := h.svc.ExportGraph(in.ModelXML)
	if err != nil {
		return jsonResp(http.StatusBadRequest, evaldto.ErrorBody("graph export failed", err, &app.Evaluation{Model: info})), nil
	}
	return jsonResp(http.StatusOK, evaldto.GraphResponse{DOT: dot, Model: info}), nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
