package generation

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/cepro/gridbuilder/config"
	"github.com/cepro/gridbuilder/network"
)

// AddNiceCarrierNames fills in the presentation attributes of every
// registered carrier: the configured display name (title-cased carrier name
// when absent) and the configured plot color. Carriers with no configured
// color are reported once.
func AddNiceCarrierNames(n *network.Network, cfg config.PlottingConfig) {
	var missingColor []string
	for _, name := range n.CarrierNames() {
		carrier, _ := n.Carrier(name)

		carrier.NiceName = cfg.NiceNames[name]
		if carrier.NiceName == "" {
			carrier.NiceName = titleCase(name)
		}

		color, ok := cfg.TechColors[name]
		if !ok {
			missingColor = append(missingColor, name)
		}
		carrier.Color = color

		// name is known to be registered
		_ = n.UpdateCarrier(carrier)
	}
	if len(missingColor) > 0 {
		sort.Strings(missingColor)
		slog.Warn("tech_colors not defined for carriers",
			"carriers", strings.Join(missingColor, ", "))
	}
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
