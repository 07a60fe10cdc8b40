// Package math provides the vector, matrix and bounding-box types used by
// the tiling engine.
package math

// Vec2 is a 2D vector. It also carries (u,v) parameter pairs.
type Vec2 struct {
	X, Y float32
}
