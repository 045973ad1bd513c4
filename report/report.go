// Package report turns chains into lines of text and writes them to a sink.
//
//	<answer> -> <guess1>, <guess2>, ..., <guessK>
//
// Each position shows every word with that mask joined by "/".
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/pool"
	"github.com/powellquiring/badgames/search"
)

// Line is the display form of a chain
type Line struct {
	Answer  string
	Guesses []string
}

func (l Line) String() string {
	return l.Answer + " -> " + strings.Join(l.Guesses, ", ")
}

// Renderer resolves masks back to words
type Renderer struct {
	Answers pool.Index
	Guesses pool.Index
}

func (r Renderer) Render(chain search.Chain) Line {
	ret := Line{
		Answer:  r.Answers.Display(chain.Answer),
		Guesses: make([]string, len(chain.Guesses)),
	}
	for i, guess := range chain.Guesses {
		ret.Guesses[i] = r.Guesses.Display(guess)
	}
	return ret
}

// Sink receives the chains of one answer.  A sink is used by one search at a time.
type Sink interface {
	search.Emitter
	Close() error
}

// Factory opens one sink per answer
type Factory interface {
	Open(answer letters.Mask) (Sink, error)
	Close() error
}

type Target int

const (
	TargetStream Target = iota
	TargetFiles
	TargetSQLite
)

func ParseTarget(s string) (Target, error) {
	switch s {
	case "stream":
		return TargetStream, nil
	case "files":
		return TargetFiles, nil
	case "sqlite":
		return TargetSQLite, nil
	}
	return TargetStream, fmt.Errorf("unknown target %q, want stream, files or sqlite", s)
}

func (t Target) String() string {
	switch t {
	case TargetFiles:
		return "files"
	case TargetSQLite:
		return "sqlite"
	}
	return "stream"
}

// Open the factory for target.  out is the directory for files, the database for sqlite and
// is ignored for the stream which writes to w.
func Open(target Target, out string, w io.Writer, r Renderer, budget int) (Factory, error) {
	switch target {
	case TargetFiles:
		d, err := NewDir(out, r)
		if err != nil {
			return nil, err
		}
		return d, nil
	case TargetSQLite:
		s, err := NewSQLite(out, r, budget)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewStream(w, r), nil
}
