// Package search enumerates chains of guesses that share no letter with each other or with an answer.
//
// A chain of length Budget is found by a depth first search.  Each node only considers the candidates
// of its parent that are still playable: a used letter never comes back so the playable set only
// shrinks going deeper.
package search

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/powellquiring/badgames/letters"
)

// Order controls whether a combination of guesses is reported once or once per permutation
type Order int

const (
	// Canonical requires strictly increasing pool rank along a chain
	Canonical Order = iota
	Unconstrained
)

// Mode controls when a search stops
type Mode int

const (
	All Mode = iota
	// FirstPerAnswer stops an answer's search after its first chain
	FirstPerAnswer
	// FirstGlobal stops every search after the first chain of the run
	FirstGlobal
)

var ErrBudget = errors.New("budget must be at least 1")

// Chain is an answer and the guesses, in the order they were played
type Chain struct {
	Answer  letters.Mask
	Guesses []letters.Mask
}

// Emitter receives each completed chain.  Returning an error abandons the search for that answer.
type Emitter interface {
	Emit(chain Chain) error
}

type EmitterFunc func(chain Chain) error

func (f EmitterFunc) Emit(chain Chain) error {
	return f(chain)
}

type Engine struct {
	Budget int
	Order  Order
	Mode   Mode

	// Stop is shared by all searches of a run, nil is allowed unless Mode is FirstGlobal
	Stop *atomic.Bool
}

// Search emits every chain for answer.  Candidates must be in rank order and
// already playable against the answer, see pool.Pool.Playable.
// Returns the number of chains emitted.
func (e *Engine) Search(answer letters.Mask, candidates []letters.Mask, emit Emitter) (int, error) {
	if e.Budget < 1 {
		return 0, ErrBudget
	}
	if e.Mode == FirstGlobal && e.Stop == nil {
		return 0, errors.New("first-global mode needs a stop flag")
	}
	s := &searcher{
		Engine:  e,
		answer:  answer,
		emit:    emit,
		chain:   make([]letters.Mask, 0, e.Budget),
		scratch: make([][]letters.Mask, e.Budget),
	}
	_, err := s.walk(answer, e.Budget, candidates)
	return s.found, err
}

func (e *Engine) stopped() bool {
	return e.Stop != nil && e.Stop.Load()
}

// searcher is the state of one answer's search, never shared
type searcher struct {
	*Engine
	answer  letters.Mask
	emit    Emitter
	chain   []letters.Mask
	scratch [][]letters.Mask // scratch[depth] holds the candidates of the child being explored at depth
	found   int
}

// walk returns true when the search must stop
func (s *searcher) walk(used letters.Mask, remaining int, candidates []letters.Mask) (bool, error) {
	if s.stopped() {
		return true, nil
	}
	if remaining == 0 {
		return s.complete()
	}
	if len(candidates) == 0 {
		return false, nil
	}
	// every guess adds at least one new letter
	if used.Free() < remaining {
		return false, nil
	}
	if s.Order == Canonical && len(candidates) < remaining {
		return false, nil
	}

	depth := len(s.chain)
	for i, guess := range candidates {
		rest := candidates
		if s.Order == Canonical {
			rest = candidates[i+1:]
		}
		next := s.scratch[depth][:0]
		for _, candidate := range rest {
			if candidate.Playable(guess) {
				next = append(next, candidate)
			}
		}
		s.scratch[depth] = next

		s.chain = append(s.chain, guess)
		stop, err := s.walk(used|guess, remaining-1, next)
		s.chain = s.chain[:depth]
		if stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

func (s *searcher) complete() (bool, error) {
	if s.Mode == FirstGlobal && !s.Stop.CompareAndSwap(false, true) {
		// another search got there first
		return true, nil
	}
	chain := Chain{Answer: s.answer, Guesses: slices.Clone(s.chain)}
	if err := s.emit.Emit(chain); err != nil {
		return true, fmt.Errorf("emit chain for %s: %w", s.answer, err)
	}
	s.found++
	return s.Mode != All, nil
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "canonical":
		return Canonical, nil
	case "unconstrained":
		return Unconstrained, nil
	}
	return Canonical, fmt.Errorf("unknown order %q, want canonical or unconstrained", s)
}

func (o Order) String() string {
	if o == Unconstrained {
		return "unconstrained"
	}
	return "canonical"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "all":
		return All, nil
	case "first-answer":
		return FirstPerAnswer, nil
	case "first-global":
		return FirstGlobal, nil
	}
	return All, fmt.Errorf("unknown mode %q, want all, first-answer or first-global", s)
}

func (m Mode) String() string {
	switch m {
	case FirstPerAnswer:
		return "first-answer"
	case FirstGlobal:
		return "first-global"
	}
	return "all"
}
