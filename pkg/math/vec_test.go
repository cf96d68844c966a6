package math

import (
	"testing"
	"time"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Floor(t *testing.T) {
	tests := []struct {
		in   Vec2
		want Vec2i
	}{
		{Vec2{0, 0}, Vec2i{0, 0}},
		{Vec2{0.999, 1}, Vec2i{0, 1}},
		{Vec2{-0.001, -1}, Vec2i{-1, -1}},
		{Vec2{20.5, 19.0625}, Vec2i{20, 19}},
	}

	for _, tt := range tests {
		if got := tt.in.Floor(); got != tt.want {
			t.Errorf("%v.Floor() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2iDiv(t *testing.T) {
	// Integer division truncates, matching how screen centers are computed
	got := Vec2i{1281, 721}.Div(2)
	want := Vec2i{640, 360}
	if got != want {
		t.Errorf("Vec2i.Div() = %v, want %v", got, want)
	}
}

func TestPerSecond(t *testing.T) {
	tests := []struct {
		rate float32
		dt   time.Duration
		want float32
	}{
		{1, 500 * time.Millisecond, 0.5},
		{0.5, 500 * time.Millisecond, 0.25},
		{1, 250 * time.Millisecond, 0.25},
		{0.5, 250 * time.Millisecond, 0.125},
	}
	for _, tt := range tests {
		if got := PerSecond(tt.rate, tt.dt); got != tt.want {
			t.Errorf("PerSecond(%v, %v) = %v, want %v", tt.rate, tt.dt, got, tt.want)
		}
	}
}
