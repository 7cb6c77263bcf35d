package mt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "line", src: "1 @ + 2 // add\n3", want: "1 @ + 2 \n3"},
		{name: "block", src: "1 /* two\nlines */@ + 2", want: "1 @ + 2"},
		{name: "trailing line", src: "print 1 // done", want: "print 1 "},
		{name: "inside string", src: "fetch <<http://example.com/*x*/>>", want: "fetch <<http://example.com/*x*/>>"},
		{name: "unterminated block", src: "1 /* open", want: "1 "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripComments(tc.src))
		})
	}
}

func TestStripCommentsKeepsProgramBoundaries(t *testing.T) {
	src := "print 1 // first\n\nprint 2"
	assert.Equal(t, []string{"print 1", "print 2"}, SplitPrograms(StripComments(src)))
}

func TestSplitPrograms(t *testing.T) {
	src := "\n\nprint 1\n@ print\n  \t \nprint 2\r\n\r\n\n\nprint 3\n"
	assert.Equal(t, []string{"print 1\n@ print", "print 2", "print 3"}, SplitPrograms(src))
	assert.Empty(t, SplitPrograms(" \n\n\t\n"))
}

func TestSplitProgramsKeepsBlankLinesInsideLiterals(t *testing.T) {
	src := "print <<first\n\nsecond>>\n\nprint <<a <<b\n\n>> c>>\n\nprint 3"
	assert.Equal(t, []string{
		"print <<first\n\nsecond>>",
		"print <<a <<b\n\n>> c>>",
		"print 3",
	}, SplitPrograms(src))
}

func TestProgramsAssignsIndexesAndIDs(t *testing.T) {
	programs := Programs("print 1\n\n// only a comment\n\nprint 2")
	if assert.Len(t, programs, 2) {
		assert.Equal(t, 0, programs[0].Index)
		assert.Equal(t, 1, programs[1].Index)
		assert.Equal(t, "print 2", programs[1].Source)
		assert.NotEmpty(t, programs[0].ID)
		assert.NotEqual(t, programs[0].ID, programs[1].ID)
	}
}
