package spatial

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cepro/gridbuilder/geometry"
)

// AdminRegion is an administrative region with the statistics used for
// disaggregation. Geometry is repaired on construction, so malformed source
// polygons never abort the pipeline.
type AdminRegion struct {
	ID       string
	Country  string
	GDP      float64 // missing statistics are entered as 0 and treated as 1.0
	Pop      float64
	HasGDP   bool
	HasPop   bool
	Geometry geometry.MultiPolygon
}

// NewAdminRegion repairs the given polygon and returns the region.
func NewAdminRegion(id, country string, gdp, pop float64, hasGDP, hasPop bool, shape geometry.Polygon) AdminRegion {
	return AdminRegion{
		ID:       id,
		Country:  country,
		GDP:      gdp,
		Pop:      pop,
		HasGDP:   hasGDP,
		HasPop:   hasPop,
		Geometry: shape.MakeValid(),
	}
}

// NodeRegion is the service area of one network node, the target of
// apportionment. Service areas are Voronoi cells, so the polygon is convex
// and belongs to exactly one country.
type NodeRegion struct {
	Bus      string
	Country  string
	Geometry geometry.Polygon
}

// Weight is the fraction of a country aggregate assigned to one bus.
type Weight struct {
	Bus      string
	Fraction float64
}

// Weights is an ordered per-bus weight series for one country. The order is
// the node ordering passed to Apportion, which keeps repeated runs on
// identical inputs byte-identical.
type Weights []Weight

// Sum returns the total of all fractions (1.0 up to floating error).
func (w Weights) Sum() float64 {
	total := 0.0
	for _, entry := range w {
		total += entry.Fraction
	}
	return total
}

// relative factors 0.6 and 0.4 have been determined from a linear regression
// on country-to-continent load data; fixed constants, not configurable
const (
	gdpBlendFactor = 0.6
	popBlendFactor = 0.4
)

// Apportion computes per-node weights for one country from the geometric
// overlap between the node service areas and the administrative regions.
// The transfer matrix is normalized by admin-region area so partial overlaps
// contribute fractionally; each region's GDP and population are then carried
// over to the nodes and blended 60/40. A country with a single node receives
// the whole weight, and a country whose statistics sum to zero degrades to
// uniform weighting rather than dividing by zero.
func Apportion(country string, nodes []NodeRegion, admins []AdminRegion) (Weights, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no node regions for country %q", country)
	}
	for _, node := range nodes {
		if node.Country != country {
			return nil, fmt.Errorf("node region %q belongs to country %q, not %q", node.Bus, node.Country, country)
		}
	}

	if len(nodes) == 1 {
		return Weights{{Bus: nodes[0].Bus, Fraction: 1.0}}, nil
	}

	countryAdmins := adminsForCountry(country, admins)
	if len(countryAdmins) == 0 {
		slog.Warn("No administrative regions for country, using uniform node weights", "country", country)
		return uniform(nodes), nil
	}

	transfer := transferMatrix(nodes, countryAdmins)

	gdp := make([]float64, len(countryAdmins))
	pop := make([]float64, len(countryAdmins))
	for i, admin := range countryAdmins {
		// regions with unknown statistics count as 1.0, never zero, so they
		// are not excluded from the disaggregation
		gdp[i] = statOr(admin.GDP, admin.HasGDP)
		pop[i] = statOr(admin.Pop, admin.HasPop)
	}

	gdpPerNode := applyTransfer(transfer, gdp)
	popPerNode := applyTransfer(transfer, pop)

	blended := make([]float64, len(nodes))
	gdpNormed, gdpOK := normed(gdpPerNode)
	popNormed, popOK := normed(popPerNode)
	if !gdpOK && !popOK {
		slog.Warn("Country statistics sum to zero, using uniform node weights", "country", country)
		return uniform(nodes), nil
	}
	for i := range blended {
		if gdpOK {
			blended[i] += gdpBlendFactor * gdpNormed[i]
		}
		if popOK {
			blended[i] += popBlendFactor * popNormed[i]
		}
	}
	factors, ok := normed(blended)
	if !ok {
		return uniform(nodes), nil
	}

	weights := make(Weights, len(nodes))
	for i, node := range nodes {
		weights[i] = Weight{Bus: node.Bus, Fraction: factors[i]}
	}
	return weights, nil
}

// transferMatrix builds the (nodes x admins) area overlap matrix, each column
// normalized by the admin region's own area.
func transferMatrix(nodes []NodeRegion, admins []AdminRegion) *mat.Dense {
	transfer := mat.NewDense(len(nodes), len(admins), nil)
	for j, admin := range admins {
		adminArea := admin.Geometry.Area()
		if adminArea == 0 {
			continue
		}
		for i, node := range nodes {
			overlap := admin.Geometry.IntersectionArea(node.Geometry)
			transfer.Set(i, j, overlap/adminArea)
		}
	}
	return transfer
}

// applyTransfer multiplies the transfer matrix with a per-admin statistic
// vector, yielding the per-node totals.
func applyTransfer(transfer *mat.Dense, stat []float64) []float64 {
	rows, _ := transfer.Dims()
	var out mat.VecDense
	out.MulVec(transfer, mat.NewVecDense(len(stat), stat))

	result := make([]float64, rows)
	for i := 0; i < rows; i++ {
		result[i] = out.AtVec(i)
	}
	return result
}

// adminsForCountry filters and orders the admin regions deterministically.
func adminsForCountry(country string, admins []AdminRegion) []AdminRegion {
	var out []AdminRegion
	for _, admin := range admins {
		if admin.Country == country {
			out = append(out, admin)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// normed divides each value by the total, reporting false when the total is
// zero and the division would be undefined.
func normed(values []float64) ([]float64, bool) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return nil, false
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out, true
}

func uniform(nodes []NodeRegion) Weights {
	weights := make(Weights, len(nodes))
	for i, node := range nodes {
		weights[i] = Weight{Bus: node.Bus, Fraction: 1.0 / float64(len(nodes))}
	}
	return weights
}

func statOr(value float64, present bool) float64 {
	if !present {
		return 1.0
	}
	return value
}
