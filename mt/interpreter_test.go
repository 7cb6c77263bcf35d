package mt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineDefaults(t *testing.T) {
	engine, err := NewEngine(Config{})
	require.NoError(t, err)

	cfg := engine.Config()
	assert.Equal(t, 10000, cfg.LoopLimit)
	assert.Equal(t, 256, cfg.RecursionLimit)
	assert.Equal(t, 1000, cfg.MaxCachedPipelines)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.NotNil(t, cfg.Output)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.Host)
}

func TestNewEngineRejectsNegativeLimits(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "loop", cfg: Config{LoopLimit: -1}, want: "loop limit"},
		{name: "recursion", cfg: Config{RecursionLimit: -1}, want: "recursion limit"},
		{name: "concurrency", cfg: Config{MaxConcurrentPrograms: -2}, want: "max concurrent programs"},
		{name: "timeout", cfg: Config{FetchTimeout: -time.Second}, want: "fetch timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	assert.Panics(t, func() { MustNewEngine(Config{LoopLimit: -1}) })
}

func TestCheck(t *testing.T) {
	engine, _ := newTestEngine(t, Config{})

	require.NoError(t, engine.Check("1 @ + 1\n\n// comment only\n\n{print (list 1)}"))

	err := engine.Check("1 @ + 1\n\nf [a] x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, SyntaxError))
	assert.Contains(t, err.Error(), "program 1")

	err = engine.Check("if true {map (f [1a] (x))}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, SyntaxError))
	assert.Contains(t, err.Error(), "invalid capture")
}

func TestCheckDoesNotRunPrograms(t *testing.T) {
	engine, out := newTestEngine(t, Config{})
	require.NoError(t, engine.Check("print <<side effect>>"))
	assert.Empty(t, out.String())
}

func TestCompileCache(t *testing.T) {
	engine, _ := newTestEngine(t, Config{MaxCachedPipelines: 2})

	first, err := engine.compile("1 @ + 1")
	require.NoError(t, err)
	again, err := engine.compile("1 @ + 1")
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = engine.compile("2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), engine.cached.Load())

	_, err = engine.compile("3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), engine.cached.Load())

	engine.ClearCompileCache()
	assert.Equal(t, int64(0), engine.cached.Load())
}

func TestCompileCacheDisabled(t *testing.T) {
	engine, _ := newTestEngine(t, Config{MaxCachedPipelines: -1})
	first, err := engine.compile("1")
	require.NoError(t, err)
	second, err := engine.compile("1")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int64(0), engine.cached.Load())
}

func TestEngineIsSafeForConcurrentEval(t *testing.T) {
	engine, _ := newTestEngine(t, Config{})
	done := make(chan Value, 8)
	for i := 0; i < 8; i++ {
		go func() {
			v, err := engine.Eval(context.Background(), "range 100 @ reduce add 0", nil)
			if err != nil {
				done <- NewNull()
				return
			}
			done <- v
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, int64(4950), (<-done).Int())
	}
}
