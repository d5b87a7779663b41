package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToVTT(t *testing.T) {
	srt := `1
00:00:01,000 --> 00:00:04,500
Hello there.

2
00:00:05,250 --> 00:00:07,000
Second cue,
with a comma in the text.
`

	var out strings.Builder
	require.NoError(t, ConvertToVTT(strings.NewReader(srt), &out))

	want := `WEBVTT

1
00:00:01.000 --> 00:00:04.500
Hello there.

2
00:00:05.250 --> 00:00:07.000
Second cue,
with a comma in the text.
`
	assert.Equal(t, want, out.String())
}

func TestConvertToVTT_StripsBOM(t *testing.T) {
	srt := "\ufeff1\n00:00:01,000 --> 00:00:02,000\nHi\n"

	var out strings.Builder
	require.NoError(t, ConvertToVTT(strings.NewReader(srt), &out))

	assert.True(t, strings.HasPrefix(out.String(), "WEBVTT\n\n1\n"))
}

func TestConvertToVTT_Empty(t *testing.T) {
	var out strings.Builder
	require.NoError(t, ConvertToVTT(strings.NewReader(""), &out))
	assert.Equal(t, "WEBVTT\n\n", out.String())
}
