package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/apetag"
)

func apeFileRaw(t *testing.T, title string) []byte {
	t.Helper()
	tag := &apetag.Tag{
		Version:   apetag.Version2000,
		HasHeader: true,
		Items:     []*apetag.Item{{Key: "Title", ValueType: apetag.ValueUTF8, Value: []byte(title)}},
	}
	body := []byte("opaque audio body of unknown internal structure")
	return append(append([]byte(nil), body...), apetag.Encode(tag)...)
}

func TestReadAPEFileDecodesTag(t *testing.T) {
	f, err := ReadAPEFile(apeFileRaw(t, "Ape Song"))
	require.NoError(t, err)
	assert.Equal(t, FormatAPE, f.Format())
	assert.Equal(t, "Ape Song", f.Tags()[0].Props().Title)
	assert.Equal(t, AudioProperties{}, f.AudioProperties())
}

func TestReadAPEFileRejectsMissingFooter(t *testing.T) {
	_, err := ReadAPEFile([]byte("just some bytes with no ape footer at all"))
	assert.Error(t, err)
}

func TestAPEFileRenderPreservesBodyAndUpdatesTag(t *testing.T) {
	f, err := ReadAPEFile(apeFileRaw(t, "Original"))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Updated"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadAPEFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Updated", reread.Tags()[0].Props().Title)
}
