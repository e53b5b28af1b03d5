package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/wavmeta"
)

func TestBextTagPropsDecodedAtConstruction(t *testing.T) {
	tag := NewBextTag(&wavmeta.BroadcastExtension{Description: "studio take 2", Originator: "Acme"})
	assert.Equal(t, "studio take 2", tag.Props().Description)
}

func TestBextTagSupports(t *testing.T) {
	tag := NewBextTag(&wavmeta.BroadcastExtension{})
	assert.True(t, tag.Supports("Description"))
	assert.False(t, tag.Supports("Title"))
}

func TestBextTagMutatePropsPreservesUnmappedFields(t *testing.T) {
	tag := NewBextTag(&wavmeta.BroadcastExtension{
		Description: "old", Originator: "Acme", OriginationDate: "2020-01-02",
	})
	tag.Props().Description = "new"

	view, err := tag.Render()
	require.NoError(t, err)

	got, err := wavmeta.DecodeBroadcastExtension(view.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, "Acme", got.Originator)
	assert.Equal(t, "2020-01-02", got.OriginationDate)
}

func TestBextTagClearAndIsEmpty(t *testing.T) {
	tag := NewBextTag(&wavmeta.BroadcastExtension{Description: "X"})
	assert.False(t, tag.IsEmpty())
	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
