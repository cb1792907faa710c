package snapshot

import (
	"bytes"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// Codec reads and writes whole simulations as snapshot documents
type Codec struct{}

// Decode restores data. An empty document gives an empty simulation.
func (Codec) Decode(data []byte, opts simulation.Options) (*simulation.Simulation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) {
		return simulation.New(production.NewCatalog(), opts)
	}
	return Load(trimmed, opts)
}

func (Codec) Encode(s *simulation.Simulation) ([]byte, error) {
	return Marshal(Encode(s))
}
