package shader

import _ "embed"

// SpriteVertex is the vertex shader for textured rectangles.
//
//go:embed sprite.vert
var SpriteVertex string

// SpriteFragment samples the texture array of a rectangle's size bucket.
//
//go:embed sprite.frag
var SpriteFragment string
