package cost

import (
	"fmt"

	"github.com/saebakery/backend/internal/domain/shared"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
)

// Provider resolves the active costing method to its strategy implementation.
// All three strategies are stateless, so one instance of each is shared.
type Provider struct {
	strategies map[strategy.CostMethod]strategy.CostingStrategy
}

// NewProvider creates a provider with the three supported strategies registered
func NewProvider() *Provider {
	p := &Provider{strategies: make(map[strategy.CostMethod]strategy.CostingStrategy)}
	for _, s := range []strategy.CostingStrategy{
		NewFIFOStrategy(),
		NewLIFOStrategy(),
		NewAverageStrategy(),
	} {
		p.strategies[s.Method()] = s
	}
	return p
}

// ForMethod returns the strategy for the given costing method
func (p *Provider) ForMethod(method strategy.CostMethod) (strategy.CostingStrategy, error) {
	s, ok := p.strategies[method]
	if !ok {
		return nil, shared.NewDomainError("INVALID_OPERATION", fmt.Sprintf("Unknown costing method %q", method))
	}
	return s, nil
}

// Default returns the FIFO strategy, the system default
func (p *Provider) Default() strategy.CostingStrategy {
	return p.strategies[strategy.CostMethodFIFO]
}
