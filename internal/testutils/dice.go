package testutils

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// ScriptedRoller returns queued results in order, then Fallback (clamped to
// the die size) once the queue is empty. It records every die size asked for.
type ScriptedRoller struct {
	mu       sync.Mutex
	queue    []int
	Fallback int
	Sizes    []int
}

var _ dice.Roller = (*ScriptedRoller)(nil)

// NewScriptedRoller queues results
func NewScriptedRoller(results ...int) *ScriptedRoller {
	return &ScriptedRoller{queue: results, Fallback: 1}
}

// Push appends more results
func (r *ScriptedRoller) Push(results ...int) {
	r.mu.Lock()
	r.queue = append(r.queue, results...)
	r.mu.Unlock()
}

// Roll returns the next queued result
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if size <= 0 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	r.Sizes = append(r.Sizes, size)

	if len(r.queue) == 0 {
		return min(max(r.Fallback, 1), size), nil
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	if next < 1 || next > size {
		return 0, fmt.Errorf("scripted result %d out of range for d%d", next, size)
	}
	return next, nil
}

// RollN rolls count dice of size
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
