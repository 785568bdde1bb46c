package plants

import (
	"sort"
	"strings"
)

// Tech is the operational technology of a matched power plant, decided once
// at ingestion so downstream steps dispatch on a tagged variant rather than
// re-inspecting technology strings.
type Tech int

const (
	TechConventional Tech = iota
	TechHydroROR
	TechHydroPHS
	TechHydroReservoir
)

func (t Tech) String() string {
	switch t {
	case TechHydroROR:
		return "ror"
	case TechHydroPHS:
		return "PHS"
	case TechHydroReservoir:
		return "reservoir"
	default:
		return "conventional"
	}
}

// Plant is one matched power-plant record attached to a network bus.
type Plant struct {
	ID         string
	Bus        string
	Country    string
	Carrier    string
	Tech       Tech
	PNom       float64 // MW
	Efficiency float64 // zero means unknown
	MaxHours   float64 // storage duration; zero means unknown
}

// Record is the raw matched power-plant row before normalization.
type Record struct {
	ID         string
	Bus        string
	Country    string
	Carrier    string
	Technology string
	PNom       float64
	Efficiency float64
	MaxHours   float64
}

// carrierNormalization maps the matching tool's fuel type spellings onto the
// model's carrier names.
var carrierNormalization = map[string]string{
	"ocgt":          "OCGT",
	"ccgt":          "CCGT",
	"ccgt, thermal": "CCGT",
	"bioenergy":     "biomass",
	"hard coal":     "coal",
}

// Normalize ingests raw matched records: carrier names are normalized and the
// technology variant is classified exactly once. Hydro plants with a missing
// technology are treated as run-of-river, matching the upstream matching
// tool's data gaps. The result is sorted by plant ID so repeated builds walk
// the plants in a stable order.
func Normalize(records []Record) []Plant {
	out := make([]Plant, 0, len(records))
	for _, rec := range records {
		carrier := rec.Carrier
		if mapped, ok := carrierNormalization[strings.ToLower(carrier)]; ok {
			carrier = mapped
		}
		out = append(out, Plant{
			ID:         rec.ID,
			Bus:        rec.Bus,
			Country:    rec.Country,
			Carrier:    carrier,
			Tech:       classify(carrier, rec.Technology),
			PNom:       rec.PNom,
			Efficiency: rec.Efficiency,
			MaxHours:   rec.MaxHours,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func classify(carrier, technology string) Tech {
	if carrier != "hydro" {
		return TechConventional
	}
	switch technology {
	case "Pumped Storage":
		return TechHydroPHS
	case "Reservoir":
		return TechHydroReservoir
	default:
		// includes "Run-Of-River" and records with no technology at all
		return TechHydroROR
	}
}

// ByCarrier returns the plants with the given carrier, preserving order.
func ByCarrier(plants []Plant, carriers ...string) []Plant {
	wanted := map[string]bool{}
	for _, c := range carriers {
		wanted[c] = true
	}
	var out []Plant
	for _, p := range plants {
		if wanted[p.Carrier] {
			out = append(out, p)
		}
	}
	return out
}

// ByTech returns the plants with the given technology variant, preserving order.
func ByTech(plants []Plant, tech Tech) []Plant {
	var out []Plant
	for _, p := range plants {
		if p.Tech == tech {
			out = append(out, p)
		}
	}
	return out
}

// FirstPerBus returns one representative plant per bus (the first in plant-ID
// order), with the buses themselves sorted for deterministic output.
func FirstPerBus(plants []Plant) []Plant {
	byBus := map[string]Plant{}
	for _, p := range plants {
		if _, seen := byBus[p.Bus]; !seen {
			byBus[p.Bus] = p
		}
	}
	buses := make([]string, 0, len(byBus))
	for bus := range byBus {
		buses = append(buses, bus)
	}
	sort.Strings(buses)

	out := make([]Plant, 0, len(buses))
	for _, bus := range buses {
		out = append(out, byBus[bus])
	}
	return out
}
