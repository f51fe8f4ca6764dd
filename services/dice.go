package services

import (
	"math/rand"
	"sync"
)

// Dice is the single random source for all engine rolls (success, damage
// variance, trait draws, enemy selection). Seedable so tests can inject
// deterministic sequences; engine code never reaches for a global rand.
type Dice struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewDice returns a Dice seeded with the given value.
func NewDice(seed int64) *Dice {
	return &Dice{r: rand.New(rand.NewSource(seed))}
}

// Float64 rolls in [0.0, 1.0).
func (d *Dice) Float64() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Float64()
}

// Intn rolls in [0, n).
func (d *Dice) Intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}

// Variance rolls the standard damage multiplier in [0.8, 1.2).
func (d *Dice) Variance() float64 {
	return d.Float64()*0.4 + 0.8
}
