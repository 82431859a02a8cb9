package overlay

import (
	"encoding/json"
	"math"

	"geoparty/pkg/geom"
)

// ParseGuesses decodes a guesses payload. Each value may be an
// {"x":..,"y":..} object or an [x, y] array; entries that are neither are
// skipped and a malformed document yields an empty set.
func ParseGuesses(data []byte) map[string]geom.Point {
	out := map[string]geom.Point{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}
	for name, v := range raw {
		if p, ok := parsePoint(v); ok {
			out[name] = p
		}
	}
	return out
}

func parsePoint(v json.RawMessage) (geom.Point, bool) {
	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(v, &obj); err == nil && obj.X != nil && obj.Y != nil {
		return finite(*obj.X, *obj.Y)
	}
	var arr []float64
	if err := json.Unmarshal(v, &arr); err == nil && len(arr) >= 2 {
		return finite(arr[0], arr[1])
	}
	return geom.Point{}, false
}

func finite(x, y float64) (geom.Point, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return geom.Point{}, false
	}
	return geom.Pt(x, y), true
}
