package repository

import (
	"github.com/cepro/gridbuilder/network"
)

// StoredCarrier is a built carrier record persisted to the SQLite buffer,
// with a count of upload attempts.
type StoredCarrier struct {
	Name               string `gorm:"primaryKey"`
	CO2Emissions       float64
	NiceName           string
	Color              string
	UploadAttemptCount uint
}

// StoredGenerator is a built generator record persisted to the SQLite buffer.
// The hourly availability profile is summarized to its mean; the full series
// stays in the model output, not the upload.
type StoredGenerator struct {
	ID                 string `gorm:"primaryKey"`
	Name               string
	Bus                string
	Carrier            string
	PNom               float64
	PNomMin            float64
	PNomMax            float64
	HasPNomMax         bool
	PNomExtendable     bool
	CapitalCost        float64
	MarginalCost       float64
	Efficiency         float64
	Weight             float64
	MeanAvailability   float64
	UploadAttemptCount uint
}

// StoredStorageUnit is a built storage unit record persisted to the SQLite
// buffer.
type StoredStorageUnit struct {
	ID                  string `gorm:"primaryKey"`
	Name                string
	Bus                 string
	Carrier             string
	PNom                float64
	MaxHours            float64
	CapitalCost         float64
	MarginalCost        float64
	EfficiencyStore     float64
	EfficiencyDispatch  float64
	CyclicStateOfCharge bool
	MeanInflow          float64
	UploadAttemptCount  uint
}

// StoredLoad is a built load record persisted to the SQLite buffer. The
// demand series is summarized to its total energy.
type StoredLoad struct {
	ID                 string `gorm:"primaryKey"`
	Name               string
	Bus                string
	TotalDemandMWh     float64
	UploadAttemptCount uint
}

func newStoredCarrier(c network.Carrier) StoredCarrier {
	return StoredCarrier{
		Name:         c.Name,
		CO2Emissions: c.CO2Emissions,
		NiceName:     c.NiceName,
		Color:        c.Color,
	}
}

func newStoredGenerator(g network.Generator) StoredGenerator {
	meanAvailability := 1.0
	if g.PMaxPU != nil {
		meanAvailability = g.PMaxPU.Mean()
	}
	return StoredGenerator{
		ID:               g.ID.String(),
		Name:             g.Name,
		Bus:              g.Bus,
		Carrier:          g.Carrier,
		PNom:             g.PNom,
		PNomMin:          g.PNomMin,
		PNomMax:          g.PNomMax,
		HasPNomMax:       g.HasPNomMax,
		PNomExtendable:   g.PNomExtendable,
		CapitalCost:      g.CapitalCost,
		MarginalCost:     g.MarginalCost,
		Efficiency:       g.Efficiency,
		Weight:           g.Weight,
		MeanAvailability: meanAvailability,
	}
}

func newStoredStorageUnit(s network.StorageUnit) StoredStorageUnit {
	meanInflow := 0.0
	if s.Inflow != nil {
		meanInflow = s.Inflow.Mean()
	}
	return StoredStorageUnit{
		ID:                  s.ID.String(),
		Name:                s.Name,
		Bus:                 s.Bus,
		Carrier:             s.Carrier,
		PNom:                s.PNom,
		MaxHours:            s.MaxHours,
		CapitalCost:         s.CapitalCost,
		MarginalCost:        s.MarginalCost,
		EfficiencyStore:     s.EfficiencyStore,
		EfficiencyDispatch:  s.EfficiencyDispatch,
		CyclicStateOfCharge: s.CyclicStateOfCharge,
		MeanInflow:          meanInflow,
	}
}

func newStoredLoad(l network.Load) StoredLoad {
	total := 0.0
	if l.PSet != nil {
		total = l.PSet.Sum()
	}
	return StoredLoad{
		ID:             l.ID.String(),
		Name:           l.Name,
		Bus:            l.Bus,
		TotalDemandMWh: total,
	}
}
