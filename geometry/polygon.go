package geometry

import "math"

// Point represents a cartesian X,Y point
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is a closed loop of points. The closing edge from the last point back to the
// first is implicit, i.e. the first point is not repeated at the end.
type Ring []Point

// Polygon is an exterior ring with zero or more interior rings (holes).
type Polygon struct {
	Exterior Ring   `json:"exterior"`
	Holes    []Ring `json:"holes,omitempty"`
}

// signedArea returns the shoelace area of the ring, positive for counter-clockwise
// winding and negative for clockwise.
func (r Ring) signedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	sum := 0.0
	for i := range r {
		p1 := r[i]
		p2 := r[(i+1)%len(r)]
		sum += p1.X*p2.Y - p2.X*p1.Y
	}
	return sum / 2
}

// Area returns the absolute area enclosed by the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.signedArea())
}

// Area returns the area of the polygon: the exterior area minus the hole areas.
func (p Polygon) Area() float64 {
	area := p.Exterior.Area()
	for _, hole := range p.Holes {
		area -= hole.Area()
	}
	return area
}

// Centroid returns the area-weighted centroid of the exterior ring.
func (p Polygon) Centroid() Point {
	r := p.Exterior
	a := r.signedArea()
	if a == 0 || len(r) < 3 {
		// degenerate ring - fall back to the mean of the points
		var c Point
		for _, pt := range r {
			c.X += pt.X
			c.Y += pt.Y
		}
		if len(r) > 0 {
			c.X /= float64(len(r))
			c.Y /= float64(len(r))
		}
		return c
	}
	var cx, cy float64
	for i := range r {
		p1 := r[i]
		p2 := r[(i+1)%len(r)]
		cross := p1.X*p2.Y - p2.X*p1.Y
		cx += (p1.X + p2.X) * cross
		cy += (p1.Y + p2.Y) * cross
	}
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}
