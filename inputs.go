package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/generation"
	"github.com/cepro/gridbuilder/geometry"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/plants"
	"github.com/cepro/gridbuilder/spatial"
)

// Inputs bundles the prepared model inputs as produced by the upstream data
// preparation steps: base topology, cost database, matched plants, region
// geometries with statistics, demand and resource time series.
type Inputs struct {
	SnapshotStart time.Time `json:"snapshot_start"`
	SnapshotEnd   time.Time `json:"snapshot_end"`

	Buses []network.Bus  `json:"buses"`
	Lines []network.Line `json:"lines"`
	Links []network.Link `json:"links"`

	CostEntries []costs.RawEntry `json:"cost_entries"`
	Plants      []plants.Record  `json:"plants"`

	AdminRegions []adminRegionInput `json:"admin_regions"`
	NodeRegions  []nodeRegionInput  `json:"node_regions"`

	DemandByCountry map[string][]float64 `json:"demand_by_country"`

	Profiles map[string]profileInput `json:"profiles"`
	Inflow   map[string][]float64    `json:"inflow"`

	HydroStats      map[string]generation.HydroStat `json:"hydro_stats"`
	OPSDCapacities  map[string]map[string]float64   `json:"opsd_capacities"`
	CapacityTargets map[string]map[string]float64   `json:"capacity_targets"`
}

// adminRegionInput carries raw region statistics; nil means the statistic is
// missing from the source data, which is distinct from a zero value.
type adminRegionInput struct {
	ID       string           `json:"id"`
	Country  string           `json:"country"`
	GDP      *float64         `json:"gdp"`
	Pop      *float64         `json:"pop"`
	Geometry geometry.Polygon `json:"geometry"`
}

type nodeRegionInput struct {
	Bus      string           `json:"bus"`
	Country  string           `json:"country"`
	Geometry geometry.Polygon `json:"geometry"`
}

type profileInput struct {
	Buses              []string             `json:"buses"`
	Profile            map[string][]float64 `json:"profile"`
	PNomMax            map[string]float64   `json:"p_nom_max"`
	Weight             map[string]float64   `json:"weight"`
	AverageDistance    map[string]float64   `json:"average_distance"`
	UnderwaterFraction map[string]float64   `json:"underwater_fraction"`
}

func readInputs(path string) (Inputs, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Inputs{}, fmt.Errorf("read inputs file: %w", err)
	}

	var inputs Inputs
	err = json.Unmarshal(content, &inputs)
	if err != nil {
		return Inputs{}, fmt.Errorf("unmarshal inputs: %w", err)
	}

	return inputs, nil
}

// buildNetwork assembles the base topology the attachment steps append to.
func buildNetwork(in Inputs) (*network.Network, error) {
	n := network.New(network.HourlySnapshots(in.SnapshotStart, in.SnapshotEnd))
	for _, bus := range in.Buses {
		if err := n.AddBus(bus); err != nil {
			return nil, err
		}
	}
	n.Lines = append(n.Lines, in.Lines...)
	n.Links = append(n.Links, in.Links...)
	return n, nil
}

func (in Inputs) adminRegions() []spatial.AdminRegion {
	regions := make([]spatial.AdminRegion, 0, len(in.AdminRegions))
	for _, r := range in.AdminRegions {
		gdp, hasGDP := statValue(r.GDP)
		pop, hasPop := statValue(r.Pop)
		regions = append(regions, spatial.NewAdminRegion(r.ID, r.Country, gdp, pop, hasGDP, hasPop, r.Geometry))
	}
	return regions
}

func (in Inputs) nodeRegions() []spatial.NodeRegion {
	regions := make([]spatial.NodeRegion, 0, len(in.NodeRegions))
	for _, r := range in.NodeRegions {
		regions = append(regions, spatial.NodeRegion{Bus: r.Bus, Country: r.Country, Geometry: r.Geometry})
	}
	return regions
}

func (in Inputs) demandSeries() map[string]*network.Series {
	demand := make(map[string]*network.Series, len(in.DemandByCountry))
	for country, values := range in.DemandByCountry {
		demand[country] = network.NewSeriesFrom(values)
	}
	return demand
}

func statValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// inputProfileSource serves availability profiles straight from the loaded
// inputs. An unknown technology yields an empty dataset, which the attachment
// step skips with a log line.
type inputProfileSource struct {
	profiles map[string]profileInput
}

func (s *inputProfileSource) Open(tech string) (*generation.ProfileDataset, error) {
	p, ok := s.profiles[tech]
	if !ok {
		return &generation.ProfileDataset{Tech: tech}, nil
	}
	profile := make(map[string]*network.Series, len(p.Profile))
	for bus, values := range p.Profile {
		profile[bus] = network.NewSeriesFrom(values)
	}
	return &generation.ProfileDataset{
		Tech:               tech,
		Buses:              p.Buses,
		Profile:            profile,
		PNomMax:            p.PNomMax,
		Weight:             p.Weight,
		AverageDistance:    p.AverageDistance,
		UnderwaterFraction: p.UnderwaterFraction,
	}, nil
}

// inputInflowSource serves hydro inflow series from the loaded inputs.
type inputInflowSource struct {
	inflow map[string][]float64
}

func (s *inputInflowSource) Open() (*generation.InflowDataset, error) {
	series := make(map[string]*network.Series, len(s.inflow))
	for station, values := range s.inflow {
		series[station] = network.NewSeriesFrom(values)
	}
	return &generation.InflowDataset{Series: series}, nil
}
