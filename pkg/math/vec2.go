// Package math provides the small vector and matrix types used by the 2D renderer.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Floor returns the integer vector whose components are the floors of v.
// Points exactly on an integer boundary belong to that integer.
func (v Vec2) Floor() Vec2i {
	return Vec2i{
		X: int32(math.Floor(float64(v.X))),
		Y: int32(math.Floor(float64(v.Y))),
	}
}

// Vec2i is a 2D integer vector, used for screen pixels and tile coordinates.
type Vec2i struct {
	X, Y int32
}

// Add returns v + other.
func (v Vec2i) Add(other Vec2i) Vec2i {
	return Vec2i{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2i) Sub(other Vec2i) Vec2i {
	return Vec2i{v.X - other.X, v.Y - other.Y}
}

// Div returns v with both components integer-divided by d.
func (v Vec2i) Div(d int32) Vec2i {
	return Vec2i{v.X / d, v.Y / d}
}

// Float converts to a Vec2.
func (v Vec2i) Float() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}
