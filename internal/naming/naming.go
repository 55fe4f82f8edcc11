// Package naming picks display names for uploaded dogs.
package naming

import (
	"log/slog"
	"math/rand/v2"
	"strings"
)

var dogNames = []string{
	"Ace", "Apollo", "Archer", "Atlas", "Axel", "Bandit", "Baxter", "Blaze", "Bolt", "Boomer",
	"Bruno", "Cash", "Chase", "Chief", "Cobra", "Diesel", "Duke", "Echo", "Enzo", "Falcon",
	"Finn", "Flash", "Ghost", "Gizmo", "Harley", "Hunter", "Jax", "Jet", "Koda", "Loki",
	"Maverick", "Maximus", "Nero", "Nova", "Odin", "Onyx", "Ranger", "Rex", "Rocky", "Ryder",
	"Samson", "Shadow", "Storm", "Tank", "Titan", "Toby", "Turbo", "Viper", "Wolf", "Zeus",
}

// Generator draws names uniformly from a fixed pool. Names repeat; callers
// that need uniqueness add their own suffix.
type Generator struct {
	pool   []string
	intN   func(n int) int
	logger *slog.Logger
}

// NewGenerator returns a Generator over the built-in pool.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{pool: dogNames, intN: rand.IntN, logger: logger}
}

// Next returns a random name with all whitespace removed.
func (g *Generator) Next() string {
	name := g.pool[g.intN(len(g.pool))]
	if g.logger != nil {
		g.logger.Debug("generated dog name", "name", name)
	}
	return strings.Join(strings.Fields(name), "")
}
