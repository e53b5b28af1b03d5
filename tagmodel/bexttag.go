package tagmodel

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/wavmeta"
)

// BextTag adapts a BWF `bext` chunk to the unified Tag interface (spec
// §4.J). Most bext fields (Originator, OriginatorReference, timecodes,
// UMID, CodingHistory) are broadcast-engineering metadata with no canonical
// Properties equivalent; only Description maps onto a property. The rest is
// retained verbatim from the decode and carried through Render unchanged,
// matching the rendering rule that unknown/unmapped chunk content survives
// a round trip untouched.
type BextTag struct {
	native *wavmeta.BroadcastExtension
	props  Properties
}

// NewBextTag wraps a decoded native bext chunk.
func NewBextTag(bx *wavmeta.BroadcastExtension) *BextTag {
	return &BextTag{native: bx, props: Properties{Description: bx.Description}}
}

func (t *BextTag) Type() TagType { return TypeBext }

func (t *BextTag) Supports(field string) bool { return field == "Description" }

func (t *BextTag) Props() *Properties { return &t.props }

func (t *BextTag) IsEmpty() bool { return t.props.Description == "" }

func (t *BextTag) Clear() { t.props.Description = "" }

// Render encodes the current Description back into the retained bext
// struct, leaving every other (unmapped) field as originally decoded.
func (t *BextTag) Render() (binutil.View, error) {
	native := *t.native
	native.Description = t.props.Description
	return binutil.NewView(wavmeta.EncodeBroadcastExtension(&native)), nil
}

func (t *BextTag) Validate() []Issue { return ValidateProperties(&t.props) }
