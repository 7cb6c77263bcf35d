package mt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls execution bounds and the collaborators an Engine uses.
type Config struct {
	// LoopLimit caps while iterations per loop.
	LoopLimit int

	// RecursionLimit caps nested pipeline evaluation: sub-expressions and
	// block calls, including self recursion.
	RecursionLimit int

	// MaxConcurrentPrograms bounds how many thread programs run at once.
	// Zero means unbounded.
	MaxConcurrentPrograms int

	// MaxCachedPipelines bounds the compile cache. Negative disables it.
	MaxCachedPipelines int

	FetchTimeout time.Duration

	// Host overrides the default StdHost built from Output and FetchTimeout.
	Host   Host
	Output io.Writer
	Logger *slog.Logger
}

// Engine runs mt scripts. An Engine is safe for concurrent use; each run
// gets its own scopes.
type Engine struct {
	config   Config
	registry *Registry
	host     Host
	logger   *slog.Logger

	cache  sync.Map
	cached atomic.Int64
}

// NewEngine constructs an Engine with sane defaults and registers built-ins.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.LoopLimit < 0 {
		return nil, fmt.Errorf("mt: loop limit must not be negative, got %d", cfg.LoopLimit)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("mt: recursion limit must not be negative, got %d", cfg.RecursionLimit)
	}
	if cfg.MaxConcurrentPrograms < 0 {
		return nil, fmt.Errorf("mt: max concurrent programs must not be negative, got %d", cfg.MaxConcurrentPrograms)
	}
	if cfg.FetchTimeout < 0 {
		return nil, fmt.Errorf("mt: fetch timeout must not be negative, got %s", cfg.FetchTimeout)
	}
	if cfg.LoopLimit == 0 {
		cfg.LoopLimit = 10000
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = 256
	}
	if cfg.MaxCachedPipelines == 0 {
		cfg.MaxCachedPipelines = 1000
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Host == nil {
		cfg.Host = NewStdHost(cfg.Output, nil, cfg.FetchTimeout)
	}

	engine := &Engine{
		config:   cfg,
		registry: NewRegistry(),
		host:     cfg.Host,
		logger:   cfg.Logger,
	}
	registerBuiltins(engine.registry)
	return engine, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Registry exposes the native function table.
func (e *Engine) Registry() *Registry { return e.registry }

// Config returns the effective configuration after defaults.
func (e *Engine) Config() Config { return e.config }

// compile returns the compiled pipeline for source, reusing earlier results.
// Blocks inside loops recompile nothing after their first call.
func (e *Engine) compile(source string) (*pipeline, error) {
	if cached, ok := e.cache.Load(source); ok {
		return cached.(*pipeline), nil
	}
	p, err := compilePipeline(source)
	if err != nil {
		return nil, err
	}
	if e.config.MaxCachedPipelines < 0 {
		return p, nil
	}
	if e.cached.Load() >= int64(e.config.MaxCachedPipelines) {
		e.ClearCompileCache()
	}
	if actual, loaded := e.cache.LoadOrStore(source, p); loaded {
		return actual.(*pipeline), nil
	}
	e.cached.Add(1)
	return p, nil
}

// ClearCompileCache drops every cached pipeline.
func (e *Engine) ClearCompileCache() {
	e.cache.Clear()
	e.cached.Store(0)
}

// Eval runs source as a single thread program against env, so variables it
// assigns remain visible to later calls. A nil env starts from an empty scope.
func (e *Engine) Eval(ctx context.Context, source string, env *Env) (Value, error) {
	if env == nil {
		env = NewEnv()
	}
	program := newThreadProgram(0, StripComments(source))
	return e.execute(ctx, program, env)
}

// Check compiles source and every nested construct without running it.
func (e *Engine) Check(source string) error {
	for i, unit := range SplitPrograms(StripComments(source)) {
		p, err := e.compile(unit)
		if err == nil {
			err = p.check(e.compile)
		}
		if err != nil {
			return fmt.Errorf("program %d: %w", i, err)
		}
	}
	return nil
}

func (e *Engine) execute(ctx context.Context, program ThreadProgram, env *Env) (Value, error) {
	p, err := e.compile(program.Source)
	if err != nil {
		return NewNull(), err
	}
	return e.newExecution(ctx, program).runPipeline(p, env, nil)
}
