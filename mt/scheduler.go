package mt

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ThreadProgram is one independently executed unit of a script.
type ThreadProgram struct {
	Index  int
	ID     string
	Source string
}

// ProgramResult is the outcome of one thread program.
type ProgramResult struct {
	Program ThreadProgram
	Value   Value
	Err     error
	Elapsed time.Duration
}

func newThreadProgram(index int, source string) ThreadProgram {
	return ThreadProgram{Index: index, ID: uuid.New().String(), Source: source}
}

// Programs strips comments from source and splits it into thread programs.
func Programs(source string) []ThreadProgram {
	units := SplitPrograms(StripComments(source))
	programs := make([]ThreadProgram, len(units))
	for i, unit := range units {
		programs[i] = newThreadProgram(i, unit)
	}
	return programs
}

// Run executes every thread program of source concurrently, each with its
// own root scope. Results are returned in source order once all programs
// finish; one program failing never stops its siblings.
func (e *Engine) Run(ctx context.Context, source string) []ProgramResult {
	programs := Programs(source)
	results := make([]ProgramResult, len(programs))

	g, gctx := errgroup.WithContext(ctx)
	if e.config.MaxConcurrentPrograms > 0 {
		g.SetLimit(e.config.MaxConcurrentPrograms)
	}
	for i, program := range programs {
		g.Go(func() error {
			results[i] = e.runProgram(gctx, program)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) runProgram(ctx context.Context, program ThreadProgram) ProgramResult {
	logger := e.logger.With(
		slog.Int("program", program.Index),
		slog.String("id", program.ID),
	)
	logger.Debug("program started")

	start := time.Now()
	value, err := e.execute(ctx, program, NewEnv())
	elapsed := time.Since(start)

	if err != nil {
		logger.Error("program failed", slog.Duration("elapsed", elapsed), slog.Any("error", err))
	} else {
		logger.Info("program finished", slog.Duration("elapsed", elapsed), slog.String("result", value.String()))
	}
	return ProgramResult{Program: program, Value: value, Err: err, Elapsed: elapsed}
}
