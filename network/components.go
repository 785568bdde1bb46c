package network

import (
	"github.com/google/uuid"
)

// Bus is a node of the base topology that components attach to.
type Bus struct {
	Name         string
	Country      string
	SubstationLV bool
}

// Line is an AC transmission line of the base topology.
type Line struct {
	Name        string
	Bus0        string
	Bus1        string
	Length      float64 // km
	CapitalCost float64
}

// Link is a controllable (typically DC) connection of the base topology.
type Link struct {
	Name               string
	Bus0               string
	Bus1               string
	Carrier            string
	Length             float64 // km
	UnderwaterFraction float64
	HasUnderwater      bool // whether underwater fraction data exists for this link
	CapitalCost        float64
}

// Carrier is a named energy technology/fuel category with emission and
// presentation attributes.
type Carrier struct {
	Name         string
	CO2Emissions float64 // tCO2/MWh_th
	NiceName     string
	Color        string
}

// Generator is a generation unit attached to a bus.
type Generator struct {
	ID             uuid.UUID
	Name           string
	Bus            string
	Carrier        string
	PNom           float64 // MW
	PNomMin        float64
	PNomMax        float64 // only meaningful when HasPNomMax
	HasPNomMax     bool
	PNomExtendable bool
	CapitalCost    float64 // currency/MW/a
	MarginalCost   float64 // currency/MWh
	Efficiency     float64
	Weight         float64
	PMaxPU         *Series // per-unit availability profile, nil means flat 1.0
}

// StorageUnit is a storage asset attached to a bus.
type StorageUnit struct {
	ID                  uuid.UUID
	Name                string
	Bus                 string
	Carrier             string
	PNom                float64 // MW
	MaxHours            float64 // energy capacity expressed as hours at PNom
	CapitalCost         float64
	MarginalCost        float64
	EfficiencyStore     float64
	EfficiencyDispatch  float64
	CyclicStateOfCharge bool
	PMaxPU              float64
	PMinPU              float64
	Inflow              *Series // natural inflow in MW, nil means none
}

// Load is a demand record attached to a bus.
type Load struct {
	ID   uuid.UUID
	Name string
	Bus  string
	PSet *Series // demand in MW per snapshot
}
