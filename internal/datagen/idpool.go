package datagen

import (
	"math/rand"
)

// IDPool tracks inserted IDs per table for FK references.
type IDPool struct {
	pool map[string][]int
}

func NewIDPool() *IDPool {
	return &IDPool{pool: make(map[string][]int)}
}

func (p *IDPool) AddIDs(table string, ids []int) {
	p.pool[table] = append(p.pool[table], ids...)
}

// RandomID draws uniformly from the table's IDs. It returns 0 when the
// table has none.
func (p *IDPool) RandomID(rng *rand.Rand, table string) int {
	ids := p.pool[table]
	if len(ids) == 0 {
		return 0
	}
	return ids[rng.Intn(len(ids))]
}

func (p *IDPool) Count(table string) int {
	return len(p.pool[table])
}

// ── Random helpers ──

// randIntRange returns a random int in [min, max] inclusive.
func randIntRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

func randomFrom(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}
