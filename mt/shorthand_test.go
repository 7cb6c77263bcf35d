package mt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveShorthands(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{src: "5 @ + 3", want: "5 @ add 3"},
		{src: "$x >= 2 @ ! @ & true", want: "$x greaterEqual 2 @ not @ and true"},
		{src: "$x > 2", want: "$x greater 2"},
		{src: "0 @ ?= {< 10} {+ 1}", want: "0 @ while {less 10} {add 1}"},
		{src: "$l # 0 ; $l ## 1 3 ; $l @ #-", want: "$l index 0 ; $l slice 1 3 ; $l @ length"},
		{src: "9 @ v/ @ |x| @ |>", want: "9 @ sqrt @ round @ print"},
		{src: "2 ** 8 @ ^ 2", want: "2 power 8 @ power 2"},
		{src: "-5 @ - 1", want: "-5 @ subtract 1"},
		{src: "print <<1 + 2 >= 3>>", want: "print <<1 + 2 >= 3>>"},
		{src: "print <<a <<+>> b>> + 1", want: "print <<a <<+>> b>> add 1"},
		{src: "(+ 1)@* 2;/ 4", want: "(add 1)@multiply 2;divide 4"},
		{src: "[a:b] {- $b}", want: "[a:b] {subtract $b}"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveShorthands(tc.src))
		})
	}
}

func TestShorthandLookup(t *testing.T) {
	call, ok := Shorthand("?=")
	assert.True(t, ok)
	assert.Equal(t, "while", call)

	_, ok = Shorthand("add")
	assert.False(t, ok)
}

func TestShorthandsFor(t *testing.T) {
	assert.Equal(t, []string{"**", "^"}, ShorthandsFor("power"))
	assert.Equal(t, []string{"+"}, ShorthandsFor("add"))
	assert.Empty(t, ShorthandsFor("map"))
}
