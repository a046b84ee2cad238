package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerEngine_SimpleModel(t *testing.T) {
	g, err := NewCompiler().Compile(readTestdata(t, "simple.dmn"))
	require.NoError(t, err)
	e := NewEngine(ExprEvaluator{})

	for age, want := range map[int]string{29: "young", 40: "old"} {
		res, err := e.Evaluate("ageGroup", g, map[string]any{"age": age})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"decision": want}, res.Value(), "age %d", age)
	}
}

func TestCompilerEngine_DinnerModel(t *testing.T) {
	g, err := NewCompiler().Compile(readTestdata(t, "dinner.dmn"))
	require.NoError(t, err)

	ctx := map[string]any{
		"season":             "Fall",
		"guestCount":         4,
		"guestsWithChildren": true,
		"hasGrandchildren":   false,
	}
	res, trace, err := NewEngine(ExprEvaluator{}).EvaluateWithTrace("host", g, ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"party": map[string]any{"mood": "calm", "music": nil}}, res.Value())
	assert.Equal(t, []string{"dish", "beverages", "host"}, trace.Order)
	assert.Equal(t, "Spareribs", ctx["dish"])
	assert.Equal(t, []any{"Aecht Schlenkerla Rauchbier", "Apple Juice", "Water"}, ctx["beverages"])
}

func TestCompilerEngine_DinnerBeverages(t *testing.T) {
	g, err := NewCompiler().Compile(readTestdata(t, "dinner.dmn"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input map[string]any
		want  []map[string]any
	}{
		{
			name:  "stew for a big winter party",
			input: map[string]any{"season": "Winter", "guestCount": 10.0, "guestsWithChildren": false},
			want:  []map[string]any{{"beverages": "Guiness"}, {"beverages": "Water"}},
		},
		{
			name:  "summer salad with children",
			input: map[string]any{"season": "Summer", "guestCount": 2, "guestsWithChildren": true},
			want:  []map[string]any{{"beverages": "Pinot Noir"}, {"beverages": "Apple Juice"}, {"beverages": "Water"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewEngine(ExprEvaluator{}).Evaluate("beverages", g, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Value())
		})
	}
}

func TestCompilerEngine_DinnerNoDishWarns(t *testing.T) {
	g, err := NewCompiler().Compile(readTestdata(t, "dinner.dmn"))
	require.NoError(t, err)

	res, err := NewEngine(ExprEvaluator{}).Evaluate("dish", g, map[string]any{"season": "Monsoon", "guestCount": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"dish": nil}, res.Output)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "dish", res.Warnings[0].DecisionID)
}
