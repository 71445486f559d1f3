// Package geometry builds map polylines out of the legacy free-text
// coordinate columns and JSON vertex lists. Malformed input is treated as
// absent geometry rather than an error.
package geometry

import (
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// ParseCoord parses one legacy coordinate cell. The second return is false
// when the cell is empty or not a number.
func ParseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LineFromEndpoints builds a 2-point [[lng,lat],[lng,lat]] line from the four
// legacy cells. It returns nil unless all four parse and the endpoints
// differ: a zero-length line renders as nothing on the map.
func LineFromEndpoints(startLat, startLng, endLat, endLng string) [][]float64 {
	sLat, ok1 := ParseCoord(startLat)
	sLng, ok2 := ParseCoord(startLng)
	eLat, ok3 := ParseCoord(endLat)
	eLng, ok4 := ParseCoord(endLng)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}
	if sLat == eLat && sLng == eLng {
		return nil
	}
	return [][]float64{{sLng, sLat}, {eLng, eLat}}
}

// PolylineFromVertices decodes a stored JSON vertex list. Points that are not
// [lng,lat] pairs are skipped; fewer than two usable points yields nil.
func PolylineFromVertices(raw datatypes.JSON) [][]float64 {
	if len(raw) == 0 {
		return nil
	}
	var pts [][]float64
	if err := json.Unmarshal(raw, &pts); err != nil {
		return nil
	}
	line := make([][]float64, 0, len(pts))
	for _, p := range pts {
		if len(p) < 2 {
			continue
		}
		line = append(line, []float64{p[0], p[1]})
	}
	if len(line) < 2 {
		return nil
	}
	return line
}
