// Package geometry provides basic geometric types used throughout the application.
package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

func (p Point2D) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func fromVec(v r2.Vec) Point2D { return Point2D{X: v.X, Y: v.Y} }

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.vec(), other.vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return fromVec(r2.Add(p.vec(), other.vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return fromVec(r2.Sub(p.vec(), other.vec()))
}

// ScaleXY scales each axis of p independently.
func (p Point2D) ScaleXY(sx, sy float64) Point2D {
	return Point2D{X: p.X * sx, Y: p.Y * sy}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Circle is a circular region used for hit zones.
type Circle struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point2D) bool {
	return c.Center.Distance(p) <= c.Radius
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ScaleTo returns the per-axis factors mapping a rectangle of size s onto
// one of size to. An empty size on either side gives (1, 1).
func (s Size) ScaleTo(to Size) (sx, sy float64) {
	if s.Empty() || to.Empty() {
		return 1, 1
	}
	return to.Width / s.Width, to.Height / s.Height
}
