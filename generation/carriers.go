package generation

import (
	"strings"

	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/network"
)

// EnsureCarriers registers every carrier name that is not yet on the network,
// deriving its emission intensity from the cost table row whose
// super-technology (the text before the first "-") matches. Carriers without
// a matching row default to zero emissions. Re-invocation with the same
// inputs is a no-op for already-registered carriers.
func EnsureCarriers(n *network.Network, table *costs.Table, carriers []string) {
	for _, name := range carriers {
		if n.HasCarrier(name) {
			continue
		}
		co2 := 0.0
		if tech, ok := table.Get(supTech(name)); ok {
			co2 = tech.CO2Intensity
		}
		n.AddCarrier(network.Carrier{Name: name, CO2Emissions: co2})
	}
}

// supTech returns the super-technology prefix of a carrier name, e.g.
// "offwind" for "offwind-ac".
func supTech(name string) string {
	return strings.SplitN(name, "-", 2)[0]
}
