// Package random draws the server's uniform choices: AI targets, timeout
// targets, AI identities, formations and join codes. Draws go through an
// rpg-toolkit dice roller so tests can script them.
package random

import (
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// Source returns uniform integers in [0, n)
type Source interface {
	Intn(n int) (int, error)
}

type roller struct {
	roller dice.Roller
}

// New wraps a dice roller. A nil roller uses the toolkit default.
func New(r dice.Roller) Source {
	if r == nil {
		r = dice.DefaultRoller
	}
	return &roller{roller: r}
}

// Intn rolls a single n-sided die and shifts it to zero-based
func (r *roller) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgumentf("cannot draw from an empty range (n=%d)", n)
	}
	v, err := r.roller.Roll(n)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", n)
	}
	return v - 1, nil
}

// Pick returns a uniformly chosen element of items
func Pick[T any](src Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.InvalidArgument("nothing to pick from")
	}
	i, err := src.Intn(len(items))
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

// Between returns a uniform integer in [lo, hi]
func Between(src Source, lo, hi int) (int, error) {
	if hi < lo {
		return 0, errors.InvalidArgumentf("empty range [%d, %d]", lo, hi)
	}
	v, err := src.Intn(hi - lo + 1)
	if err != nil {
		return 0, err
	}
	return lo + v, nil
}

// Sequence replays fixed draws, wrapping each into range. It is meant for tests.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence creates a scripted source
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Intn returns the next scripted value modulo n
func (s *Sequence) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgumentf("cannot draw from an empty range (n=%d)", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0, nil
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return ((v % n) + n) % n, nil
}
