package mt

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgomes/mtscript/internal/testutil"
)

// newTestEngine returns an engine whose host output is captured in the
// returned buffer. Read the buffer only after runs complete.
func newTestEngine(t testing.TB, cfg Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	if cfg.Output == nil {
		cfg.Output = out
	}
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine, out
}

func evalScript(t testing.TB, source string) Value {
	t.Helper()
	engine, _ := newTestEngine(t, Config{})
	v, err := engine.Eval(context.Background(), source, nil)
	require.NoError(t, err, "eval %q", source)
	return v
}

func evalError(t testing.TB, source string) *Error {
	t.Helper()
	engine, _ := newTestEngine(t, Config{})
	_, err := engine.Eval(context.Background(), source, nil)
	require.Error(t, err, "eval %q", source)
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	return scriptErr
}
