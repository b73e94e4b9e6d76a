package provider

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

type Option func(*Sources)

// WithSeed makes generated content reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sources) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sources) {
		if now != nil {
			s.now = now
		}
	}
}

// WithoutFixtures disables the embedded fixture lookup so every payload is generated.
func WithoutFixtures() Option {
	return func(s *Sources) {
		s.fixtures = nil
	}
}

// Sources serves mock market, trade, patent, clinical, internal and web intelligence.
// Fixture data is consulted first; anything not covered is generated.
type Sources struct {
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
	fixtures *fixtureSet
}

func New(opts ...Option) *Sources {
	s := &Sources{
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:      time.Now,
		fixtures: loadFixtures(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Sources) Market(ctx context.Context, molecule string) (*MarketPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	molecule = strings.TrimSpace(molecule)
	if p, ok := s.fixtures.market(molecule); ok {
		return p, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateMarket(molecule), nil
}

func (s *Sources) Trade(ctx context.Context, molecule string) (*TradePayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	molecule = strings.TrimSpace(molecule)
	if p, ok := s.fixtures.trade(molecule); ok {
		return p, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateTrade(molecule), nil
}

func (s *Sources) Patents(ctx context.Context, molecule string) (*PatentPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	molecule = strings.TrimSpace(molecule)
	if p, ok := s.fixtures.patents(molecule); ok {
		return p, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatePatents(molecule), nil
}

func (s *Sources) Trials(ctx context.Context, molecule string) (*TrialsPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	molecule = strings.TrimSpace(molecule)
	if p, ok := s.fixtures.trials(molecule); ok {
		return p, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateTrials(molecule), nil
}

func (s *Sources) InternalDocs(ctx context.Context, query string) (*InternalDocsPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateInternalDocs(strings.TrimSpace(query)), nil
}

func (s *Sources) Web(ctx context.Context, query string) (*WebPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateWeb(strings.TrimSpace(query)), nil
}

// random helpers; callers hold s.mu.

func (s *Sources) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func (s *Sources) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Sources) coin() bool {
	return s.rng.IntN(2) == 0
}

func (s *Sources) choice(items []string) string {
	return items[s.rng.IntN(len(items))]
}

func (s *Sources) sample(items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	idx := s.rng.Perm(len(items))[:k]
	out := make([]string, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

func (s *Sources) daysAgo(lo, hi int) string {
	return s.now().AddDate(0, 0, -s.between(lo, hi)).Format(time.DateOnly)
}

func (s *Sources) yearsAgo(lo, hi int) string {
	return s.now().AddDate(-s.between(lo, hi), 0, 0).Format(time.DateOnly)
}

func (s *Sources) yearsAhead(lo, hi int) string {
	return s.now().AddDate(s.between(lo, hi), 0, 0).Format(time.DateOnly)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
