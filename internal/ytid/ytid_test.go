package ytid_test

import (
	"testing"

	"github.com/laytan/tubescribe/internal/ytid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const id = "dQw4w9WgXcQ"

func TestParseAcceptedShapes(t *testing.T) {
	inputs := []string{
		id,
		"https://www.youtube.com/watch?v=" + id,
		"https://youtube.com/watch?v=" + id,
		"https://m.youtube.com/watch?v=" + id + "&t=42s",
		"http://www.youtube.com/watch?list=WL&v=" + id,
		"https://youtu.be/" + id,
		"https://youtu.be/" + id + "?t=10",
		"https://www.youtube.com/embed/" + id,
		"https://www.youtube.com/embed/" + id + "?autoplay=1",
		"  " + id + "  ",
	}

	for _, input := range inputs {
		got, err := ytid.Parse(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, id, got, "input %q", input)
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := ytid.Parse("https://youtu.be/" + id)
	require.NoError(t, err)

	second, err := ytid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseRejected(t *testing.T) {
	inputs := []string{
		"",
		"tooshort",
		"waaaaaaaaaaaaaytoolong",
		"dQw4w9WgXc!",                         // invalid character
		"https://vimeo.com/watch?v=" + id,     // wrong host
		"https://www.youtube.com/watch",       // missing v param
		"https://www.youtube.com/embed/",      // missing path segment
		"https://youtu.be/",                   // missing path segment
		"youtu.be/" + id,                      // no scheme
		"ftp://www.youtube.com/watch?v=" + id, // wrong scheme
		"https://www.youtube.com/watch?v=bad", // short id in param
	}

	for _, input := range inputs {
		_, err := ytid.Parse(input)
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, ytid.ErrInvalid, "input %q", input)
	}
}
