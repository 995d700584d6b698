package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laytan/tubescribe/internal/index"
	"github.com/laytan/tubescribe/internal/store"
)

// encode builds a searchable transcript with the index package's own
// encoding, ids counting up from 1.
func encode(lines ...string) string {
	sb := strings.Builder{}
	for i, line := range lines {
		sb.WriteString(index.SearchableLine(int64(i+1), line))
	}

	return sb.String()
}

func TestVideoFindsLine(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode(
		"welcome back everyone",
		"today we are peeling bananas",
		"thanks for watching",
	)}

	ids, err := Video(vid, "peeling bananas")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestVideoMatchesAcrossWordForms(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("today we peeled a banana")}

	ids, err := Video(vid, "Peeling, a bananas!")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestVideoMatchAcrossLineBoundary(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode(
		"this is how you peel",
		"a banana properly",
	)}

	// A phrase spoken across two lines resolves to the line it ends on.
	ids, err := Video(vid, "peel a banana")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestVideoMatchAtEndOfTranscript(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode(
		"first line here",
		"thanks for watching",
	)}

	ids, err := Video(vid, "thanks for watching")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestVideoRepeatedPrefix(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("hello hello world")}

	ids, err := Video(vid, "hello world")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestVideoSelfOverlappingQuery(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("hello hello hello world")}

	// The occurrence starts at the second "hello", inside the window the
	// first, broken attempt already consumed.
	ids, err := Video(vid, "hello hello world")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestVideoMultipleMatches(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode(
		"banana bread is great",
		"nothing relevant here",
		"more banana bread",
	)}

	ids, err := Video(vid, "banana bread")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestVideoNoMatch(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("totally unrelated content")}

	ids, err := Video(vid, "banana bread")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestVideoEmptyQuery(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("some content")}

	ids, err := Video(vid, ",,, ...")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestVideoWordsOutOfOrderDontMatch(t *testing.T) {
	vid := &store.Video{SearchableTranscript: encode("bread banana")}

	ids, err := Video(vid, "banana bread")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
