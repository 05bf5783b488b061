package strategy

import "math"

// Params is a strategy parameter set: a flat mapping of names to numeric
// values. Any subset of a strategy's defaults may be overridden; values
// that arrive as NaN or Inf are coerced to 0, never rejected, so a bad
// override degrades a parameter instead of failing the whole evaluation.
type Params map[string]float64

// Get returns the named parameter, falling back to def when absent.
// Non-finite stored values coerce to 0.
func (p Params) Get(name string, def float64) float64 {
	v, ok := p[name]
	if !ok {
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// GetInt returns the named parameter truncated to an int.
func (p Params) GetInt(name string, def int) int {
	return int(p.Get(name, float64(def)))
}

// GetBool treats any non-zero value as true.
func (p Params) GetBool(name string, def bool) bool {
	d := 0.0
	if def {
		d = 1.0
	}
	return p.Get(name, d) != 0
}

// Merge overlays overrides onto defaults, returning a new set. Unknown
// override keys are carried through untouched; strategies simply ignore
// names they do not read.
func Merge(defaults, overrides Params) Params {
	out := make(Params, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[k] = v
	}
	return out
}
