package geocode

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"crm-service/internal/model"
	"crm-service/internal/utils"
)

// Simulated stands in for a map service. It places every new address at a
// random point inside [lo, hi] on both axes and remembers the answer, so
// searching the same address twice returns the same pin.
type Simulated struct {
	mu    sync.Mutex
	rng   *rand.Rand
	lo    float64
	hi    float64
	cache map[string]model.Coordinate
	log   zerolog.Logger
}

// NewSimulated returns a geocoder drawing from [lo, hi]. A zero seed picks
// a random one.
func NewSimulated(lo, hi float64, seed int64, log zerolog.Logger) (*Simulated, error) {
	if lo < model.CoordinateMin || hi > model.CoordinateMax || lo >= hi {
		return nil, fmt.Errorf("simulated geocoder: invalid range [%v, %v]", lo, hi)
	}

	s1 := uint64(seed)
	if seed == 0 {
		s1 = rand.Uint64()
	}

	return &Simulated{
		rng:   rand.New(rand.NewPCG(s1, s1^0x9e3779b97f4a7c15)),
		lo:    lo,
		hi:    hi,
		cache: make(map[string]model.Coordinate),
		log:   log,
	}, nil
}

func (g *Simulated) Geocode(ctx context.Context, address string) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, err
	}

	key := utils.NormalizeAddress(address)
	if strings.TrimSpace(key) == "" {
		return model.Coordinate{}, fmt.Errorf("geocode: empty address")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.cache[key]; ok {
		g.log.Debug().Str("address", key).Msg("geocode cache hit")
		return c, nil
	}

	span := g.hi - g.lo
	c := model.Coordinate{
		X: g.lo + g.rng.Float64()*span,
		Y: g.lo + g.rng.Float64()*span,
	}
	g.cache[key] = c

	g.log.Debug().Str("address", key).Float64("x", c.X).Float64("y", c.Y).Msg("geocode resolved")
	return c, nil
}
