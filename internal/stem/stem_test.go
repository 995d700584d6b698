package stem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Cooking bananas!", want: "cook banana"},
		{in: "cooked banana", want: "cook banana"},
		{in: "  spaced   out  words ", want: "space out word"},
		{in: "...", want: ""},
		{in: "", want: ""},
		{in: "\"quoted\" (bracketed)", want: "quot bracket"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, StemLine(test.in), "stemming %q", test.in)
	}
}

func TestStemLineWords(t *testing.T) {
	assert.Equal(t, []string{"cook", "banana"}, StemLineWords("Cooking bananas!"))
	assert.Empty(t, StemLineWords("  ... "))
}

func TestDifferentFormsMatch(t *testing.T) {
	assert.Equal(t, StemLine("peeling the banana"), StemLine("Peeled, the banana?"))
}
