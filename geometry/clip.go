package geometry

// ClipByConvex clips the ring against a convex clip ring using the
// Sutherland-Hodgman algorithm, returning the ring of the overlap region.
// Node service areas are Voronoi cells and therefore convex, so they always
// satisfy the convexity requirement on the clip ring. An empty ring is
// returned when there is no overlap.
func (r Ring) ClipByConvex(clip Ring) Ring {
	if len(r) < 3 || len(clip) < 3 {
		return nil
	}

	// Sutherland-Hodgman walks the clip edges with a consistent winding, so
	// ensure the clip ring is counter-clockwise.
	if clip.signedArea() < 0 {
		clip = clip.reversed()
	}

	output := r
	for i := range clip {
		if len(output) == 0 {
			return nil
		}
		a := clip[i]
		b := clip[(i+1)%len(clip)]

		input := output
		output = nil
		for j := range input {
			cur := input[j]
			prev := input[(j+len(input)-1)%len(input)]

			curInside := isLeftOf(a, b, cur)
			prevInside := isLeftOf(a, b, prev)

			if curInside {
				if !prevInside {
					output = append(output, lineIntersection(prev, cur, a, b))
				}
				output = append(output, cur)
			} else if prevInside {
				output = append(output, lineIntersection(prev, cur, a, b))
			}
		}
	}
	if len(output) < 3 {
		return nil
	}
	return output
}

// IntersectionArea returns the area of overlap between the polygon and a convex
// clip polygon. Holes in the subject polygon reduce the overlap; holes in the
// clip polygon are not supported (Voronoi cells have none).
func (p Polygon) IntersectionArea(clip Polygon) float64 {
	area := p.Exterior.ClipByConvex(clip.Exterior).Area()
	for _, hole := range p.Holes {
		area -= hole.ClipByConvex(clip.Exterior).Area()
	}
	if area < 0 {
		return 0
	}
	return area
}

// isLeftOf reports whether p lies on or to the left of the directed line a->b.
func isLeftOf(a, b, p Point) bool {
	return (b.X-a.X)*(p.Y-a.Y)-(b.Y-a.Y)*(p.X-a.X) >= 0
}

// lineIntersection returns the intersection of the (infinite) lines p1->p2 and p3->p4.
// Callers only invoke this for segment pairs that are known to cross.
func lineIntersection(p1, p2, p3, p4 Point) Point {
	a1 := p2.Y - p1.Y
	b1 := p1.X - p2.X
	c1 := a1*p1.X + b1*p1.Y

	a2 := p4.Y - p3.Y
	b2 := p3.X - p4.X
	c2 := a2*p3.X + b2*p3.Y

	det := a1*b2 - a2*b1
	if det == 0 {
		// parallel lines - return an endpoint as the degenerate answer
		return p2
	}
	return Point{
		X: (b2*c1 - b1*c2) / det,
		Y: (a1*c2 - a2*c1) / det,
	}
}

func (r Ring) reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}
