package entity

import (
	"fmt"
	"math"
)

// Vector is a position with orientation
type Vector struct {
	X float32
	Y float32
	Z float32
	O float32
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f, %.2f)", v.X, v.Y, v.Z, v.O)
}

// DistanceTo calculates the 3D distance between two positions, orientation ignored
func (v Vector) DistanceTo(o Vector) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}
