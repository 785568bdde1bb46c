package geometry

// MultiPolygon is a collection of polygons treated as one geometry.
type MultiPolygon []Polygon

// Area returns the summed area of all member polygons.
func (m MultiPolygon) Area() float64 {
	total := 0.0
	for _, p := range m {
		total += p.Area()
	}
	return total
}

// IntersectionArea returns the summed overlap between the members and a convex
// clip polygon.
func (m MultiPolygon) IntersectionArea(clip Polygon) float64 {
	total := 0.0
	for _, p := range m {
		total += p.IntersectionArea(clip)
	}
	return total
}

// MakeValid repairs an invalid polygon so that it can be used for area
// computations. Self-intersecting ("bowtie") exterior rings are split into
// their simple lobes, each becoming a member of the returned MultiPolygon.
// Malformed geometry never aborts the caller: rings too small to enclose any
// area are dropped, and an already-valid polygon is returned unchanged as a
// single-member MultiPolygon.
func (p Polygon) MakeValid() MultiPolygon {
	rings := splitSelfIntersections(p.Exterior.dedupe(), 0)

	var out MultiPolygon
	for _, r := range rings {
		if len(r) < 3 || r.Area() == 0 {
			continue
		}
		poly := Polygon{Exterior: r}
		// holes are kept only on the lobe that still contains them
		for _, hole := range p.Holes {
			h := hole.dedupe()
			if len(h) < 3 {
				continue
			}
			if r.contains(h[0]) {
				poly.Holes = append(poly.Holes, h)
			}
		}
		out = append(out, poly)
	}
	return out
}

// maxSplitDepth bounds the recursion when untangling pathological rings.
const maxSplitDepth = 16

// splitSelfIntersections finds the first pair of properly crossing edges and
// splits the ring into two sub-rings at the crossing point, recursing until
// every ring is simple.
func splitSelfIntersections(r Ring, depth int) []Ring {
	if len(r) < 4 || depth >= maxSplitDepth {
		return []Ring{r}
	}

	n := len(r)
	for i := 0; i < n; i++ {
		a1 := r[i]
		a2 := r[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// skip adjacent edges, including the wrap-around pair
			if i == 0 && j == n-1 {
				continue
			}
			b1 := r[j]
			b2 := r[(j+1)%n]

			x, crosses := segmentCrossing(a1, a2, b1, b2)
			if !crosses {
				continue
			}

			// first lobe: start..i, crossing point, j+1..end
			first := append(Ring{}, r[:i+1]...)
			first = append(first, x)
			first = append(first, r[j+1:]...)
			// second lobe: crossing point, i+1..j
			second := append(Ring{x}, r[i+1:j+1]...)

			out := splitSelfIntersections(first.dedupe(), depth+1)
			out = append(out, splitSelfIntersections(second.dedupe(), depth+1)...)
			return out
		}
	}
	return []Ring{r}
}

// segmentCrossing reports whether the open segments a1-a2 and b1-b2 properly
// cross, and the crossing point if so. Touching at endpoints does not count.
func segmentCrossing(a1, a2, b1, b2 Point) (Point, bool) {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return lineIntersection(a1, a2, b1, b2), true
	}
	return Point{}, false
}

func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// contains reports whether the point is inside the ring, using the even-odd
// ray casting rule.
func (r Ring) contains(p Point) bool {
	inside := false
	n := len(r)
	for i := 0; i < n; i++ {
		a := r[i]
		b := r[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// dedupe removes consecutive duplicate points and a repeated closing point.
func (r Ring) dedupe() Ring {
	if len(r) == 0 {
		return r
	}
	out := Ring{r[0]}
	for _, p := range r[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
