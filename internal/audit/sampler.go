package audit

import (
	"math/rand/v2"
	"sync"
)

// Sampler keeps a fraction of events per risk score. LOW results dominate
// traffic and are the usual candidates for sampling down; HIGH and FATAL are
// normally kept in full.
type Sampler struct {
	mu          sync.RWMutex
	defaultRate float64
	rates       map[string]float64
}

func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{defaultRate: clampRate(defaultRate), rates: make(map[string]float64)}
}

// SetRate overrides the rate for one risk score.
func (s *Sampler) SetRate(score string, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[score] = clampRate(rate)
}

// Keep reports whether an event with this risk score should be published.
func (s *Sampler) Keep(score string) bool {
	s.mu.RLock()
	rate, ok := s.rates[score]
	if !ok {
		rate = s.defaultRate
	}
	s.mu.RUnlock()

	switch {
	case rate >= 1:
		return true
	case rate <= 0:
		return false
	default:
		return rand.Float64() < rate //nolint:gosec // sampling does not need crypto rand
	}
}

func clampRate(rate float64) float64 {
	return max(0, min(1, rate))
}
