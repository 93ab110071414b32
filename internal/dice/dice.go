package dice

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/partysync/internal/dice Roller

import (
	"math/rand"
	"sync"
	"time"
)

// Roller provides dice rolling functionality
type Roller interface {
	// Roll returns a value between 1 and sides
	Roll(sides int) int
}

// Config for dice roller
type Config struct {
	// Seed makes the roll sequence reproducible; zero seeds from the clock
	Seed int64
}

// randomRoller rolls from a seeded source. The host seeds it from the
// session config so a replayed session rolls the same values.
type randomRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) *randomRoller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &randomRoller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *randomRoller) Roll(sides int) int {
	if sides < 1 {
		sides = 6 // Default to 6-sided die
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(sides) + 1
}
