package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_GetDefaultsAndCoercion(t *testing.T) {
	p := Params{
		"present": 3.5,
		"nan":     math.NaN(),
		"posInf":  math.Inf(1),
		"negInf":  math.Inf(-1),
	}
	assert.Equal(t, 3.5, p.Get("present", 1))
	assert.Equal(t, 7.0, p.Get("absent", 7))
	assert.Equal(t, 0.0, p.Get("nan", 7))
	assert.Equal(t, 0.0, p.Get("posInf", 7))
	assert.Equal(t, 0.0, p.Get("negInf", 7))
}

func TestParams_GetIntAndBool(t *testing.T) {
	p := Params{"period": 14.9, "flag": 1, "off": 0}
	assert.Equal(t, 14, p.GetInt("period", 5))
	assert.Equal(t, 5, p.GetInt("absent", 5))
	assert.True(t, p.GetBool("flag", false))
	assert.False(t, p.GetBool("off", true))
	assert.True(t, p.GetBool("absent", true))
}

func TestMerge_OverlaysAndCoerces(t *testing.T) {
	defaults := Params{"a": 1, "b": 2}
	out := Merge(defaults, Params{"b": 9, "c": 3, "bad": math.NaN()})
	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, 9.0, out["b"])
	assert.Equal(t, 3.0, out["c"])
	assert.Equal(t, 0.0, out["bad"])
	// Inputs untouched.
	assert.Equal(t, 2.0, defaults["b"])
}

func TestRegistry_LookupAndAll(t *testing.T) {
	ids := []string{"bollinger-meanrev", "fib-retrace", "htf-trend-filter", "liquidity-sweep", "sma-crossover"}
	for _, id := range ids {
		s, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, s.ID())
		assert.NotEmpty(t, s.Name())
		assert.NotEmpty(t, s.Defaults())
	}

	_, err := Lookup("nope")
	assert.Error(t, err)

	all := All()
	require.Len(t, all, len(ids))
	for i, s := range all {
		assert.Equal(t, ids[i], s.ID(), "sorted by ID")
	}
}
