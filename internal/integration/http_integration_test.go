package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/app"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision/cache"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/metrics"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/transport/httptransport"
)

const cycleModel = `<definitions id="cyc" name="Cycle">
  <decision id="a">
    <informationRequirement><requiredDecision href="#b"/></informationRequirement>
    <decisionTable hitPolicy="FIRST">
      <input><inputExpression><text>x</text></inputExpression></input>
      <output name="a"/>
      <rule><inputEntry><text>-</text></inputEntry><outputEntry><text>1</text></outputEntry></rule>
    </decisionTable>
  </decision>
  <decision id="b">
    <informationRequirement><requiredDecision href="#a"/></informationRequirement>
    <decisionTable hitPolicy="FIRST">
      <input><inputExpression><text>x</text></inputExpression></input>
      <output name="b"/>
      <rule><inputEntry><text>-</text></inputEntry><outputEntry><text>2</text></outputEntry></rule>
    </decisionTable>
  </decision>
</definitions>`

const badConditionModel = `<definitions id="bad">
  <decision id="d">
    <decisionTable hitPolicy="FIRST">
      <input><inputExpression><text>x</text></inputExpression></input>
      <output name="out"/>
      <rule><inputEntry><text>len(x) &gt; 1</text></inputEntry><outputEntry><text>1</text></outputEntry></rule>
    </decisionTable>
  </decision>
</definitions>`

func readModel(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "decision", "testdata", name))
	require.NoError(t, err)
	return string(b)
}

func newServer(reg *prometheus.Registry) *httptest.Server {
	m := metrics.New(reg)
	engine := decision.NewEngine(decision.ExprEvaluator{}, decision.WithDecisionLatencyObserver(m))
	svc := app.NewService(decision.NewCompiler(), engine, cache.NewInMemory(1024), app.WithRecorder(m))
	return httptest.NewServer(httptransport.NewRouter(httptransport.NewHandler(svc), reg))
}

func post(t *testing.T, srv *httptest.Server, path string, payload any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBuffer(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHTTPEvaluate_EndToEndSuccess(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	status, out := post(t, srv, "/evaluate", map[string]any{
		"model_xml": readModel(t, "simple.dmn"),
		"decision":  "ageGroup",
		"input":     map[string]any{"age": 25},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"decision": "young"}, out["result"])
	assert.NotEmpty(t, out["evaluation_id"])
	assert.Equal(t, "ageDefinitions", out["model"].(map[string]any)["id"])
}

func TestHTTPEvaluate_DinnerRequiredDecisions(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	model := readModel(t, "dinner.dmn")
	tests := []struct {
		name     string
		decision string
		input    map[string]any
		want     any
	}{
		{
			name:     "unique dish",
			decision: "dish",
			input:    map[string]any{"season": "Winter", "guestCount": 8},
			want:     map[string]any{"dish": "Roastbeef"},
		},
		{
			name:     "collect beverages",
			decision: "beverages",
			input:    map[string]any{"season": "Winter", "guestCount": 10, "guestsWithChildren": false},
			want:     []any{map[string]any{"beverages": "Guiness"}, map[string]any{"beverages": "Water"}},
		},
		{
			name:     "nested host output",
			decision: "host",
			input:    map[string]any{"season": "Fall", "guestCount": 4, "guestsWithChildren": true, "hasGrandchildren": false},
			want:     map[string]any{"party": map[string]any{"mood": "calm", "music": nil}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, out := post(t, srv, "/evaluate", map[string]any{
				"model_xml": model,
				"decision":  tc.decision,
				"input":     tc.input,
			})
			require.Equal(t, http.StatusOK, status, "%v", out)
			assert.Equal(t, tc.want, out["result"])
		})
	}
}

func TestHTTPEvaluate_DebugTrace(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	status, out := post(t, srv, "/evaluate", map[string]any{
		"model_xml": readModel(t, "dinner.dmn"),
		"decision":  "host",
		"input":     map[string]any{"season": "Fall", "guestCount": 4, "guestsWithChildren": true, "hasGrandchildren": false},
		"debug":     true,
	})
	require.Equal(t, http.StatusOK, status)
	trace, ok := out["trace"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"dish", "beverages", "host"}, trace["order"])
}

func TestHTTPEvaluate_InputErrors(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	t.Run("invalid_json", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/evaluate", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid_model_xml", func(t *testing.T) {
		status, out := post(t, srv, "/evaluate", map[string]any{
			"model_xml": "<definitions><decision",
			"decision":  "d",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, out["details"])
	})

	t.Run("unknown_decision", func(t *testing.T) {
		status, out := post(t, srv, "/evaluate", map[string]any{
			"model_xml": readModel(t, "simple.dmn"),
			"decision":  "ghost",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "unknown_decision", out["kind"])
	})

	t.Run("non_unique_match", func(t *testing.T) {
		status, out := post(t, srv, "/evaluate", map[string]any{
			"model_xml": strings.Replace(readModel(t, "simple.dmn"), `hitPolicy="FIRST"`, `hitPolicy="UNIQUE"`, 1),
			"decision":  "ageGroup",
			"input":     map[string]any{"age": 20},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "non_unique_match", out["kind"])
	})

	t.Run("rule_condition", func(t *testing.T) {
		status, out := post(t, srv, "/evaluate", map[string]any{
			"model_xml": badConditionModel,
			"decision":  "d",
			"input":     map[string]any{"x": "abc"},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "rule_condition", out["kind"])
	})
}

func TestHTTPEvaluate_RejectsCycle(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	status, out := post(t, srv, "/evaluate", map[string]any{
		"model_xml": cycleModel,
		"decision":  "a",
		"input":     map[string]any{"x": 1},
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cyclic_dependency", out["kind"])
	assert.Contains(t, out["details"], "a -> b -> a")
}

func TestHTTPGraph_ExportsDOT(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	status, out := post(t, srv, "/graph", map[string]any{"model_xml": readModel(t, "dinner.dmn")})
	require.Equal(t, http.StatusOK, status)
	dot, _ := out["dot"].(string)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(dot), "digraph DRG"), dot)
}

func TestHTTPMetrics_CountsEvaluations(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newServer(reg)
	defer srv.Close()

	status, _ := post(t, srv, "/evaluate", map[string]any{
		"model_xml": readModel(t, "simple.dmn"),
		"decision":  "ageGroup",
		"input":     map[string]any{"age": 40},
	})
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `outcome="ok"`)
}

func TestHTTPEvaluate_ConcurrentRequests(t *testing.T) {
	srv := newServer(prometheus.NewRegistry())
	defer srv.Close()

	model := readModel(t, "simple.dmn")
	const n = 80
	var wg sync.WaitGroup
	errs := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(age int) {
			defer wg.Done()
			b, _ := json.Marshal(map[string]any{
				"model_xml": model,
				"decision":  "ageGroup",
				"input":     map[string]any{"age": age},
			})
			resp, err := http.Post(srv.URL+"/evaluate", "application/json", bytes.NewBuffer(b))
			if err != nil {
				errs <- err.Error()
				return
			}
			defer resp.Body.Close()
			var out map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				errs <- err.Error()
				return
			}
			want := "old"
			if age < 30 {
				want = "young"
			}
			res, _ := out["result"].(map[string]any)
			if resp.StatusCode != http.StatusOK || res["decision"] != want {
				errs <- "unexpected response"
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}
