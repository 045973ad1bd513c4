package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3" // imports as package "cli"
	"go.uber.org/multierr"

	"github.com/powellquiring/badgames/dispatch"
	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/pool"
	"github.com/powellquiring/badgames/report"
	"github.com/powellquiring/badgames/search"
	"github.com/powellquiring/badgames/wordlist"
)

type GlobalConfiguration struct {
	logLevel string
	progress bool
	profile  bool
}

// SearchConfiguration is the search command flags before parsing
type SearchConfiguration struct {
	guessesPath string
	answersPath string
	budget      int
	target      string
	out         string
	mode        string
	order       string
	workers     int
	strict      bool
}

func configureLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	return nil
}

func cpuProfile() (func(), error) {
	f, err := os.Create("cpu.prof")
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// start is done by every command: logging then the optional profile
func start(global GlobalConfiguration) (func(), error) {
	if err := configureLogging(global.logLevel); err != nil {
		return nil, cli.Exit(fmt.Sprintf("bad log level %q: %v", global.logLevel, err), 1)
	}
	if !global.profile {
		return func() {}, nil
	}
	return cpuProfile()
}

func loadPool(path string, strict bool) (*pool.Pool, int, error) {
	words, err := wordlist.Load(path, strict)
	if err != nil {
		return nil, 0, fmt.Errorf("load allowed guesses: %w", err)
	}
	return pool.Build(words), len(words), nil
}

func searchBadGames(ctx context.Context, global GlobalConfiguration, sc SearchConfiguration, stdout io.Writer) error {
	if sc.budget < 1 {
		return cli.Exit("budget must be at least 1", 1)
	}
	if sc.workers < 1 {
		return cli.Exit("workers must be at least 1", 1)
	}
	mode, err := search.ParseMode(sc.mode)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	order, err := search.ParseOrder(sc.order)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	target, err := report.ParseTarget(sc.target)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// both lists are read before any search starts
	p, guessCount, err := loadPool(sc.guessesPath, sc.strict)
	if err != nil {
		return err
	}
	answerWords, err := wordlist.Load(sc.answersPath, sc.strict)
	if err != nil {
		return fmt.Errorf("load answers: %w", err)
	}
	answers := pool.NewIndex(answerWords)
	log.Info().
		Int("guesses", guessCount).
		Int("pool", p.Len()).
		Int("answers", len(answerWords)).
		Int("answer_masks", len(answers)).
		Int("budget", sc.budget).
		Stringer("mode", mode).
		Stringer("order", order).
		Stringer("target", target).
		Msg("word lists loaded")

	renderer := report.Renderer{Answers: answers, Guesses: p.Index()}
	sinks, err := report.Open(target, sc.out, stdout, renderer, sc.budget)
	if err != nil {
		return err
	}

	d := dispatch.New(p, answers, sinks, dispatch.Config{
		Budget:   sc.budget,
		Order:    order,
		Mode:     mode,
		Workers:  sc.workers,
		Progress: global.progress,
	}, log.Logger)
	summary, runErr := d.Run(ctx)
	err = multierr.Append(runErr, sinks.Close())

	log.Info().
		Int("answers", summary.Answers).
		Int("answers_with_chains", summary.AnswersHit).
		Int("chains", summary.Chains).
		Bool("stopped", summary.Stopped).
		Dur("elapsed", summary.Elapsed).
		Msg("done")
	return err
}

func stats(path string, strict bool, stdout io.Writer) error {
	p, guessCount, err := loadPool(path, strict)
	if err != nil {
		return err
	}
	ix := p.Index()
	collisions := ix.Collisions()
	fmt.Fprintln(stdout, "words:", guessCount)
	fmt.Fprintln(stdout, "spellings:", ix.WordCount())
	fmt.Fprintln(stdout, "masks:", p.Len())
	fmt.Fprintln(stdout, "collisions:", len(collisions))

	// largest groups first, then by mask
	sort.SliceStable(collisions, func(i, j int) bool {
		return len(ix[collisions[i]]) > len(ix[collisions[j]])
	})
	for _, mask := range collisions[:min(10, len(collisions))] {
		fmt.Fprintln(stdout, " ", len(ix[mask]), ix.Display(mask))
	}

	counts := p.LetterCounts()
	for letter := range letters.All.Letters() {
		fmt.Fprintf(stdout, "%c: %d\n", 'a'+letter, counts[letter])
	}
	return nil
}

func guessesFlag(destination *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "guesses",
		Aliases:     []string{"g"},
		Value:       "data/allowed.txt",
		Usage:       "file of allowed guesses, one per line",
		Destination: destination,
		Sources:     cli.EnvVars("BADGAMES_GUESSES"),
	}
}

func strictFlag(destination *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "strict",
		Value:       false,
		Usage:       "reject words with characters outside a-z instead of ignoring those characters",
		Destination: destination,
		Sources:     cli.EnvVars("BADGAMES_STRICT"),
	}
}

func newCommand(stdout io.Writer) *cli.Command {
	global := GlobalConfiguration{}
	sc := SearchConfiguration{}
	statsPath := ""
	statsStrict := false
	return &cli.Command{
		Name:  "badgames",
		Usage: "find wordle games where no guess shares a letter with the answer or another guess",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Value:       "info",
				Usage:       "trace, debug, info, warn or error",
				Destination: &global.logLevel,
				Sources:     cli.EnvVars("BADGAMES_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bar",
				Destination: &global.progress,
			},
			&cli.BoolFlag{
				Name:        "profile",
				Value:       false,
				Usage:       "store profile data to analyze",
				Destination: &global.profile,
			},
		},
		Commands: []*cli.Command{
			{
				Name: "search",
				Usage: `search [flags]
				For every answer list every chain of budget guesses that share no letter with the answer
				or with each other.  Each line is: answer -> guess1, guess2, ...
				Words with the same letters are shown together separated by /.
				`,
				Flags: []cli.Flag{
					guessesFlag(&sc.guessesPath),
					&cli.StringFlag{
						Name:        "answers",
						Aliases:     []string{"a"},
						Value:       "data/answers.txt",
						Usage:       "file of answers, one per line",
						Destination: &sc.answersPath,
						Sources:     cli.EnvVars("BADGAMES_ANSWERS"),
					},
					&cli.IntFlag{
						Name:        "budget",
						Aliases:     []string{"k"},
						Value:       6,
						Usage:       "number of guesses in a chain",
						Destination: &sc.budget,
						Sources:     cli.EnvVars("BADGAMES_BUDGET"),
					},
					&cli.StringFlag{
						Name:        "target",
						Aliases:     []string{"t"},
						Value:       "stream",
						Usage:       "stream (stdout), files (one per answer in --out) or sqlite (database --out)",
						Destination: &sc.target,
						Sources:     cli.EnvVars("BADGAMES_TARGET"),
					},
					&cli.StringFlag{
						Name:        "out",
						Aliases:     []string{"o"},
						Value:       "out",
						Usage:       "directory for files, database path for sqlite",
						Destination: &sc.out,
						Sources:     cli.EnvVars("BADGAMES_OUT"),
					},
					&cli.StringFlag{
						Name:        "mode",
						Aliases:     []string{"m"},
						Value:       "all",
						Usage:       "all, first-answer (first chain of each answer) or first-global (first chain of the run)",
						Destination: &sc.mode,
						Sources:     cli.EnvVars("BADGAMES_MODE"),
					},
					&cli.StringFlag{
						Name:        "order",
						Value:       "canonical",
						Usage:       "canonical (each combination once) or unconstrained (every permutation)",
						Destination: &sc.order,
						Sources:     cli.EnvVars("BADGAMES_ORDER"),
					},
					&cli.IntFlag{
						Name:        "workers",
						Aliases:     []string{"w"},
						Value:       runtime.NumCPU(),
						Usage:       "answers searched at the same time",
						Destination: &sc.workers,
						Sources:     cli.EnvVars("BADGAMES_WORKERS"),
					},
					strictFlag(&sc.strict),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					stop, err := start(global)
					if err != nil {
						return err
					}
					defer stop()
					return searchBadGames(ctx, global, sc, stdout)
				},
			},
			{
				Name: "stats",
				Usage: `stats [flags]
				Describe the guess pool: distinct letter sets, words sharing a letter set and letter counts.
				`,
				Flags: []cli.Flag{
					guessesFlag(&statsPath),
					strictFlag(&statsStrict),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					stop, err := start(global)
					if err != nil {
						return err
					}
					defer stop()
					return stats(statsPath, statsStrict, stdout)
				},
			},
		},
	}
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("badgames failed")
	}
}
