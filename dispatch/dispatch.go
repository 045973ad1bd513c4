// Package dispatch runs one search per answer on a fixed number of workers.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/pool"
	"github.com/powellquiring/badgames/report"
	"github.com/powellquiring/badgames/search"
)

type Config struct {
	Budget int
	Order  search.Order
	Mode   search.Mode

	// Workers defaults to the number of CPUs
	Workers  int
	Progress bool
}

type Summary struct {
	Answers    int // answers searched
	AnswersHit int // answers with at least one chain
	Chains     int
	Stopped    bool
	Elapsed    time.Duration
}

type Dispatcher struct {
	pool    *pool.Pool
	answers pool.Index
	sinks   report.Factory
	config  Config
	log     zerolog.Logger
}

func New(p *pool.Pool, answers pool.Index, sinks report.Factory, config Config, log zerolog.Logger) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &Dispatcher{pool: p, answers: answers, sinks: sinks, config: config, log: log}
}

// Run searches every distinct answer mask.  The pool is only read so the searches share it without locking.
// A failed sink ends the search of its answer only, the errors of all answers are returned together.
func (d *Dispatcher) Run(ctx context.Context) (Summary, error) {
	if d.config.Budget < 1 {
		return Summary{}, search.ErrBudget
	}
	answers := d.answers.Masks()
	start := time.Now()
	stop := &atomic.Bool{}
	defer context.AfterFunc(ctx, func() { stop.Store(true) })()
	if ctx.Err() != nil {
		stop.Store(true)
	}

	var bar *progressbar.ProgressBar
	if d.config.Progress {
		bar = progressbar.Default(int64(len(answers)), "answers")
	} else {
		bar = progressbar.DefaultSilent(int64(len(answers)))
	}

	var (
		mu       sync.Mutex
		hits     = bitset.New(uint(len(answers)))
		searched int
		chains   int
		errs     error
	)

	var g errgroup.Group
	g.SetLimit(d.config.Workers)
	for i, answer := range answers {
		if stop.Load() {
			break
		}
		g.Go(func() error {
			defer bar.Add(1)
			if stop.Load() {
				return nil
			}
			found, err := d.searchAnswer(answer, stop)
			mu.Lock()
			defer mu.Unlock()
			searched++
			chains += found
			if found > 0 {
				hits.Set(uint(i))
			}
			if err != nil {
				d.log.Error().Err(err).Str("answer", d.answers.Display(answer)).Msg("answer failed")
				errs = multierr.Append(errs, err)
			}
			return nil
		})
	}
	g.Wait()
	bar.Finish()

	summary := Summary{
		Answers:    searched,
		AnswersHit: int(hits.Count()),
		Chains:     chains,
		Stopped:    stop.Load(),
		Elapsed:    time.Since(start),
	}
	if ctx.Err() != nil {
		errs = multierr.Append(errs, ctx.Err())
	}
	return summary, errs
}

func (d *Dispatcher) searchAnswer(answer letters.Mask, stop *atomic.Bool) (found int, err error) {
	engine := &search.Engine{
		Budget: d.config.Budget,
		Order:  d.config.Order,
		Mode:   d.config.Mode,
		Stop:   stop,
	}
	candidates := d.pool.Playable(answer)

	sink, err := d.sinks.Open(answer)
	if err != nil {
		return 0, fmt.Errorf("open sink for %s: %w", d.answers.Display(answer), err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close sink for %s: %w", d.answers.Display(answer), closeErr))
		}
	}()

	found, err = engine.Search(answer, candidates, sink)
	d.log.Debug().
		Str("answer", d.answers.Display(answer)).
		Int("candidates", len(candidates)).
		Int("chains", found).
		Msg("answer searched")
	return found, err
}
