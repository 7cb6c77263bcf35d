package mt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPipelines(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Value
	}{
		{name: "pipe", src: "2 @ + 3", want: NewInt(5)},
		{name: "chained pipe", src: "2 @ + 3 @ * 4 @ - 1", want: NewInt(19)},
		{name: "reset discards input", src: "5 @ + 1 ; 10", want: NewInt(10)},
		{name: "sub-expression", src: "add (multiply 2 3) 4", want: NewInt(10)},
		{name: "float promotion", src: "1 @ / 4", want: NewFloat(0.25)},
		{name: "exact division stays int", src: "9 @ / 3", want: NewInt(3)},
		{name: "division by minus one stays int", src: "6 @ / -1", want: NewInt(-6)},
		{name: "negative exact division", src: "6 @ / -2", want: NewInt(-3)},
		{name: "min int by minus one promotes", src: "-9223372036854775808 @ / -1", want: NewFloat(9223372036854775808)},
		{name: "string literal", src: "<<hello world>>", want: NewString("hello world")},
		{name: "comparison", src: "3 @ >= 3", want: NewBool(true)},
		{name: "boolean", src: "true @ & (1 @ > 2) @ !", want: NewBool(true)},
		{name: "null passes through pipe", src: "null @ type", want: NewString("null")},
		{name: "empty statements skipped", src: "1 @ @ + 1 ;; ", want: NewInt(2)},
		{name: "conversion", src: "<<42>> @ to int @ + 1", want: NewInt(43)},
		{name: "conversion target named like a function", src: "5 @ to list", want: NewList([]Value{NewInt(5)})},
		{name: "block as head runs with input", src: "5 @ {+ 1}", want: NewInt(6)},
		{name: "comments stripped", src: "1 // one\n@ + 1 /* two */", want: NewInt(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalScript(t, tc.src)
			assert.Equal(t, tc.want.Tag(), got.Tag(), "got %s", got)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestEvalVariables(t *testing.T) {
	got := evalScript(t, "=$x 5 ; $x @ * 2")
	assert.Equal(t, int64(10), got.Int())

	got = evalScript(t, "3 @ =$x ; $x @ + $x")
	assert.Equal(t, int64(6), got.Int())

	err := evalError(t, "$y")
	assert.Equal(t, UndefinedVariable, err.Kind)

	err = evalError(t, "var y ; $y")
	assert.Equal(t, UnassignedVariable, err.Kind)
}

func TestEvalEnvPersistsAcrossCalls(t *testing.T) {
	engine, _ := newTestEngine(t, Config{})
	env := NewEnv()
	ctx := context.Background()

	_, err := engine.Eval(ctx, "=$count 1", env)
	require.NoError(t, err)
	got, err := engine.Eval(ctx, "$count @ + 1 @ =$count", env)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Int())
	assert.Equal(t, []string{"count"}, env.Names())
}

func TestCaptureListLimitsVisibility(t *testing.T) {
	got := evalScript(t, "=$a 1 ; =$b 2 ; [a] ($a @ + 10)")
	assert.Equal(t, int64(11), got.Int())

	got = evalScript(t, "=$a 1 ; [a:z] ($z @ + 1)")
	assert.Equal(t, int64(2), got.Int())

	err := evalError(t, "=$a 1 ; =$b 2 ; [a] ($b)")
	assert.Equal(t, UndefinedVariable, err.Kind)
	assert.Contains(t, err.Message, "b")
	assert.Equal(t, "$b", err.Statement())
	assert.Equal(t, []string{"$b", "[a] ($b)"}, err.Frames)

	got = evalScript(t, "=$a 1 ; =$b 2 ; =$f [a] {$a @ + 10} ; $f")
	assert.Equal(t, int64(11), got.Int())

	err = evalError(t, "=$a 1 ; =$b 2 ; =$f [a] {$b} ; $f")
	assert.Equal(t, UndefinedVariable, err.Kind)
	assert.Contains(t, err.Message, "b")
}

func TestCapturesShareCells(t *testing.T) {
	got := evalScript(t, "=$n 1 ; =$bump [n] {; =$n ($n @ + 1)} ; $bump ; $bump ; $n")
	assert.Equal(t, int64(3), got.Int())
}

func TestVarShadowsInsideBlock(t *testing.T) {
	got := evalScript(t, "=$n 1 ; =$f {; var n ; =$n 50 ; $n} ; $f ; $n")
	assert.Equal(t, int64(1), got.Int())
}

func TestRecursiveBlock(t *testing.T) {
	src := "=$fact {=$n ; $n @ <= 1 @ ? {1} {$n @ - 1 @ $fact @ * $n}} ; 5 @ $fact"
	got := evalScript(t, src)
	assert.Equal(t, int64(120), got.Int())
}

func TestBlocksSnapshotScopeAtCreation(t *testing.T) {
	err := evalError(t, "=$f {$late} ; =$late 1 ; $f")
	assert.Equal(t, UndefinedVariable, err.Kind)
}

func TestSelfBindingRecursion(t *testing.T) {
	got := evalScript(t, "3 @ {=$k ; $k @ > 0 @ ? [k self:outer] {$k @ - 1 @ $outer} {<<done>>}}")
	assert.Equal(t, "done", got.Str())
}

func TestBlockArgsBinding(t *testing.T) {
	got := evalScript(t, "{; $args} 1 2 3")
	assert.True(t, NewList([]Value{NewInt(1), NewInt(2), NewInt(3)}).Equal(got), "got %s", got)

	got = evalScript(t, "=$pair {; $args @ # 1} ; $pair <<a>> <<b>>")
	assert.Equal(t, "b", got.Str())
}

func TestIf(t *testing.T) {
	assert.Equal(t, "big", evalScript(t, "3 @ > 2 @ ? {<<big>>} {<<small>>}").Str())
	assert.Equal(t, "small", evalScript(t, "1 @ > 2 @ ? {<<big>>} {<<small>>}").Str())
	assert.True(t, evalScript(t, "false @ ? {<<yes>>}").IsNull())

	err := evalError(t, "1 @ ? {<<yes>>} {<<no>>}")
	assert.Equal(t, TypeError, err.Kind)
}

func TestIfInvokesOnlyChosenBranch(t *testing.T) {
	engine, out := newTestEngine(t, Config{})
	_, err := engine.Eval(context.Background(), "true @ ? {print <<then>>} {print <<else>>}", nil)
	require.NoError(t, err)
	assert.Equal(t, "then\n", out.String())
}

func TestWhileCountsToTen(t *testing.T) {
	got := evalScript(t, "0 @ ?= {< 10} {+ 1}")
	assert.Equal(t, TagInt, got.Tag())
	assert.Equal(t, int64(10), got.Int())

	got = evalScript(t, "=$runs 0 ; 0 @ ?= {< 10} {=$s ; =$runs ($runs @ + 1) ; $s @ + 1} ; $runs")
	assert.Equal(t, int64(10), got.Int())
}

func TestWhileInfiniteLoop(t *testing.T) {
	err := evalError(t, "0 @ ?= {; true} {+ 1}")
	assert.Equal(t, InfiniteLoop, err.Kind)
	assert.Contains(t, err.Message, "10000")
}

func TestWhileHonorsConfiguredLimit(t *testing.T) {
	engine, _ := newTestEngine(t, Config{LoopLimit: 5})
	_, err := engine.Eval(context.Background(), "0 @ ?= {< 10} {+ 1}", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, InfiniteLoop))

	got, err := engine.Eval(context.Background(), "0 @ ?= {< 5} {+ 1}", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Int())
}

func TestWhileConditionMustBeBool(t *testing.T) {
	err := evalError(t, "0 @ ?= {+ 1} {+ 1}")
	assert.Equal(t, TypeError, err.Kind)
	assert.Contains(t, err.Message, "condition")
}

func TestStatementErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{name: "unknown function", src: "frobnicate 1", kind: UndefinedFunction},
		{name: "value with arguments", src: "5 6", kind: DefinitionError},
		{name: "string with arguments", src: "<<a>> 1", kind: DefinitionError},
		{name: "type error", src: "1 @ + <<a>>", kind: TypeError},
		{name: "arity error", src: "not true false", kind: ArityError},
		{name: "invalid declaration", src: "var 1x", kind: SyntaxError},
		{name: "capture without group", src: "[a] x", kind: SyntaxError},
		{name: "division by zero", src: "1 @ / 0", kind: RuntimeError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := evalError(t, tc.src)
			assert.Equal(t, tc.kind, err.Kind, "got %v", err)
		})
	}
}

func TestErrorsAreAnnotatedWithStatements(t *testing.T) {
	err := evalError(t, "1 @ + 1 @ + <<a>> @ + 2")
	assert.Equal(t, TypeError, err.Kind)
	assert.Equal(t, "add <<a>>", err.Statement())
	assert.Contains(t, err.Error(), "\n  at add <<a>>")

	err = evalError(t, "(1 @ (<<x>> @ + 1))")
	assert.Equal(t, []string{"add 1", "(<<x>> @ add 1)", "(1 @ (<<x>> @ add 1))"}, err.Frames)
}

func TestRecursionLimit(t *testing.T) {
	engine, _ := newTestEngine(t, Config{RecursionLimit: 40})
	_, err := engine.Eval(context.Background(), "=$f {$f} ; $f", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, RecursionError))
	assert.Contains(t, err.Error(), "frames omitted")
}

func TestCanceledContextStopsProgram(t *testing.T) {
	engine, _ := newTestEngine(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Eval(ctx, "1 @ + 1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPrintWritesToHost(t *testing.T) {
	engine, out := newTestEngine(t, Config{})
	got, err := engine.Eval(context.Background(), "<<hi>> @ |> ; print 1 2.5 (list 1 2)", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Int())
	assert.Equal(t, "hi\n1 2.5 [1, 2]\n", out.String())
	assert.False(t, strings.Contains(out.String(), `"`))
}
