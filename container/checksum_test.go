package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioChecksumStableAcrossTagEdits(t *testing.T) {
	f, err := ReadMP3(minimalMP3Bytes(t))
	require.NoError(t, err)

	before, err := AudioChecksum(f)
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Changed Title"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMP3(out)
	require.NoError(t, err)
	after, err := AudioChecksum(reread)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestAudioChecksumDiffersOnAudioChange(t *testing.T) {
	f1, err := ReadMP3(minimalMP3Bytes(t))
	require.NoError(t, err)
	sum1, err := AudioChecksum(f1)
	require.NoError(t, err)

	f2, err := ReadFLAC(flacRaw(t))
	require.NoError(t, err)
	sum2, err := AudioChecksum(f2)
	require.NoError(t, err)

	assert.NotEqual(t, sum1, sum2)
}
