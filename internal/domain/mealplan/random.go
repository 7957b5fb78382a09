package mealplan

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler randomizes candidate order. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// LockedRand is a Shuffler safe for use by concurrent generations
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRand seeds a shared random source. A zero seed uses the clock.
func NewLockedRand(seed int64) *LockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle implements Shuffler
func (r *LockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}

// ShuffleRecipes shuffles recipes in place
func ShuffleRecipes(s Shuffler, recipes []Recipe) {
	s.Shuffle(len(recipes), func(i, j int) {
		recipes[i], recipes[j] = recipes[j], recipes[i]
	})
}

// NoShuffle leaves candidate order untouched
type NoShuffle struct{}

// Shuffle implements Shuffler
func (NoShuffle) Shuffle(int, func(i, j int)) {}
