package mt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReplacesTopLevelGroups(t *testing.T) {
	ext, err := Extract("add (multiply 2 3) 4 @ if {print <<yes>>} {print <<no>>} @ print <<done>>")
	require.NoError(t, err)

	assert.Equal(t, "add (0) 4 @ if {0} {1} @ print <<0>>", ext.Text)
	require.Len(t, ext.Subs, 1)
	assert.Equal(t, "multiply 2 3", ext.Subs[0].Source)
	require.Len(t, ext.Blocks, 2)
	assert.Equal(t, "print <<yes>>", ext.Blocks[0].Source)
	assert.Equal(t, "print <<no>>", ext.Blocks[1].Source)
	assert.Equal(t, []string{"done"}, ext.Strings)
}

func TestExtractCapturesNestedGroupsWhole(t *testing.T) {
	ext, err := Extract("f (a (b {c}) d) {x (y)}")
	require.NoError(t, err)

	assert.Equal(t, "f (0) {0}", ext.Text)
	assert.Equal(t, "a (b {c}) d", ext.Subs[0].Source)
	assert.Equal(t, "x (y)", ext.Blocks[0].Source)
}

func TestExtractStringContentIsOpaque(t *testing.T) {
	ext, err := Extract("print <<a ( { [ } <<inner>> @ ;>> @ (x)")
	require.NoError(t, err)

	assert.Equal(t, "print <<0>> @ (0)", ext.Text)
	assert.Equal(t, []string{"a ( { [ } <<inner>> @ ;"}, ext.Strings)
	assert.Equal(t, "x", ext.Subs[0].Source)
}

func TestExtractCaptureList(t *testing.T) {
	ext, err := Extract("g [a b:c] (x) [d]   {y}")
	require.NoError(t, err)

	assert.Equal(t, "g (0) {0}", ext.Text)
	require.Len(t, ext.Subs, 1)
	assert.True(t, ext.Subs[0].Annotated)
	assert.Equal(t, []Capture{{Outer: "a", Inner: "a"}, {Outer: "b", Inner: "c"}}, ext.Subs[0].Captures)
	assert.True(t, ext.Blocks[0].Annotated)
	assert.Equal(t, []Capture{{Outer: "d", Inner: "d"}}, ext.Blocks[0].Captures)
}

func TestExtractEmptyCaptureListIsAnnotated(t *testing.T) {
	ext, err := Extract("[] (x)")
	require.NoError(t, err)
	require.Len(t, ext.Subs, 1)
	assert.True(t, ext.Subs[0].Annotated)
	assert.Empty(t, ext.Subs[0].Captures)
}

func TestExtractCaptureErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "not followed by group", src: "[a] x", want: "must be followed by ( or {"},
		{name: "at end of input", src: "f [a]", want: "must be followed by ( or {"},
		{name: "invalid name", src: "[1a] (x)", want: "invalid capture"},
		{name: "invalid alias", src: "[a:] (x)", want: "invalid capture"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, SyntaxError))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestExtractRecoversFromUnterminatedGroups(t *testing.T) {
	cases := []struct {
		src  string
		text string
		subs []string
	}{
		{src: "add (1 2", text: "add (1 2"},
		{src: "a ( (b) c", text: "a ( (0) c", subs: []string{"b"}},
		{src: "(a } b", text: "(a } b"},
		{src: "x ) y", text: "x ) y"},
		{src: "print <<open", text: "print <<open"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			ext, err := Extract(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.text, ext.Text)
			var subs []string
			for _, g := range ext.Subs {
				subs = append(subs, g.Source)
			}
			assert.Equal(t, tc.subs, subs)
		})
	}
}

func TestExtractInlineRoundTrips(t *testing.T) {
	sources := []string{
		"add (multiply 2 3) 4",
		"if {print <<yes>>} {print <<no (really)>>}",
		"g [a b:c] (x) [d]   {y}",
		"f [x] (y)",
		"nested (a (b {c <<d>>}))",
		"a ( (b) c",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			ext, err := Extract(src)
			require.NoError(t, err)
			assert.Equal(t, src, ext.Inline(ext.Text))
		})
	}
}
