package model

import (
	"errors"
	"math"
)

const (
	CoordinateMin = 0.0
	CoordinateMax = 100.0
)

var (
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
	ErrInvalidSurface       = errors.New("invalid surface size")
)

// Coordinate is a position on the dispatch map in percentage space:
// both axes run from 0 (left/top) to 100 (right/bottom).
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewCoordinate(x, y float64) (Coordinate, error) {
	if !inRange(x) || !inRange(y) {
		return Coordinate{}, ErrCoordinateOutOfRange
	}
	return Coordinate{X: x, Y: y}, nil
}

func (c Coordinate) Valid() bool {
	return inRange(c.X) && inRange(c.Y)
}

func ClampCoordinate(x, y float64) Coordinate {
	return Coordinate{X: clamp(x), Y: clamp(y)}
}

// FromSurfacePoint converts a click at (px, py) on a width x height surface
// into a clamped percentage coordinate.
func FromSurfacePoint(px, py, width, height float64) (Coordinate, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return Coordinate{}, ErrInvalidSurface
	}
	if math.IsNaN(px) || math.IsNaN(py) {
		return Coordinate{}, ErrCoordinateOutOfRange
	}
	return ClampCoordinate(px/width*100, py/height*100), nil
}

func inRange(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= CoordinateMin && v <= CoordinateMax
}

func clamp(v float64) float64 {
	if v < CoordinateMin {
		return CoordinateMin
	}
	if v > CoordinateMax {
		return CoordinateMax
	}
	return v
}
