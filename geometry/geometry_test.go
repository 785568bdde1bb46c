package geometry

import (
	"math"
	"testing"
)

func unitSquare(x0, y0, size float64) Ring {
	return Ring{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size},
		{X: x0, Y: y0 + size},
	}
}

func TestRingArea(t *testing.T) {
	subTests := []struct {
		name     string
		ring     Ring
		expected float64
	}{
		{name: "unit square", ring: unitSquare(0, 0, 1), expected: 1.0},
		{name: "2x2 square", ring: unitSquare(-1, -1, 2), expected: 4.0},
		{name: "clockwise winding still positive", ring: unitSquare(0, 0, 1).reversed(), expected: 1.0},
		{name: "triangle", ring: Ring{{0, 0}, {4, 0}, {0, 3}}, expected: 6.0},
		{name: "degenerate", ring: Ring{{0, 0}, {1, 1}}, expected: 0.0},
	}
	for _, subTest := range subTests {
		t.Run(subTest.name, func(t *testing.T) {
			if got := subTest.ring.Area(); !almostEqual(got, subTest.expected, 1e-9) {
				t.Errorf("got %v, expected %v", got, subTest.expected)
			}
		})
	}
}

func TestPolygonAreaWithHole(t *testing.T) {
	p := Polygon{
		Exterior: unitSquare(0, 0, 4),
		Holes:    []Ring{unitSquare(1, 1, 1)},
	}
	if got := p.Area(); !almostEqual(got, 15.0, 1e-9) {
		t.Errorf("got %v, expected 15", got)
	}
}

func TestClipByConvex(t *testing.T) {
	subTests := []struct {
		name         string
		subject      Ring
		clip         Ring
		expectedArea float64
	}{
		{
			name:         "half overlap",
			subject:      unitSquare(0, 0, 2),
			clip:         unitSquare(1, 0, 2),
			expectedArea: 2.0,
		},
		{
			name:         "no overlap",
			subject:      unitSquare(0, 0, 1),
			clip:         unitSquare(5, 5, 1),
			expectedArea: 0.0,
		},
		{
			name:         "subject inside clip",
			subject:      unitSquare(1, 1, 1),
			clip:         unitSquare(0, 0, 4),
			expectedArea: 1.0,
		},
		{
			name:         "clip inside subject",
			subject:      unitSquare(0, 0, 4),
			clip:         unitSquare(1, 1, 1),
			expectedArea: 1.0,
		},
		{
			name:         "quarter corner overlap",
			subject:      unitSquare(0, 0, 2),
			clip:         unitSquare(1, 1, 2),
			expectedArea: 1.0,
		},
		{
			name:         "clockwise clip ring is handled",
			subject:      unitSquare(0, 0, 2),
			clip:         unitSquare(1, 0, 2).reversed(),
			expectedArea: 2.0,
		},
	}
	for _, subTest := range subTests {
		t.Run(subTest.name, func(t *testing.T) {
			got := subTest.subject.ClipByConvex(subTest.clip).Area()
			if !almostEqual(got, subTest.expectedArea, 1e-9) {
				t.Errorf("got area %v, expected %v", got, subTest.expectedArea)
			}
		})
	}
}

func TestMakeValidBowtie(t *testing.T) {
	// A bowtie: two unit-ish triangles joined at a crossing, traced as one ring.
	// The shoelace area of the raw ring cancels to zero, but the repaired
	// geometry should recover both lobes.
	bowtie := Polygon{Exterior: Ring{{0, 0}, {2, 2}, {2, 0}, {0, 2}}}

	repaired := bowtie.MakeValid()
	if len(repaired) != 2 {
		t.Fatalf("expected 2 lobes, got %d", len(repaired))
	}
	if got := repaired.Area(); !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("got area %v, expected 2", got)
	}
}

func TestMakeValidSimplePolygonUnchanged(t *testing.T) {
	p := Polygon{Exterior: unitSquare(0, 0, 3)}
	repaired := p.MakeValid()
	if len(repaired) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(repaired))
	}
	if got := repaired.Area(); !almostEqual(got, 9.0, 1e-9) {
		t.Errorf("got area %v, expected 9", got)
	}
}

func TestMakeValidDegenerateRingDropped(t *testing.T) {
	p := Polygon{Exterior: Ring{{0, 0}, {1, 1}}}
	if repaired := p.MakeValid(); len(repaired) != 0 {
		t.Errorf("expected degenerate ring to be dropped, got %d polygons", len(repaired))
	}
}

func TestRingContains(t *testing.T) {
	square := unitSquare(0, 0, 2)
	if !square.contains(Point{X: 1, Y: 1}) {
		t.Error("expected centre point to be inside")
	}
	if square.contains(Point{X: 3, Y: 1}) {
		t.Error("expected outside point to be outside")
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
