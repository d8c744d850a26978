package trackeddemo

import (
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/pkg/memo"
)

// Image is a raster image, grounded on the runtime's image.rs example.
// Resize is a plain mutation; Width and Height are the tracked surface.
type Image struct {
	width, height int
	pixels        []byte
}

// NewImage creates a width x height image with zeroed pixels.
func NewImage(width, height int) *Image {
	return &Image{width: width, height: height, pixels: make([]byte, width*height)}
}

// Resize changes the image's dimensions in place.
func (img *Image) Resize(width, height int) {
	img.width, img.height = width, height
	img.pixels = make([]byte, width*height)
}

func (img *Image) width_() int  { return img.width }
func (img *Image) height_() int { return img.height }

// TrackedImage is the tracked surface for Image.
type TrackedImage struct {
	handle memo.Handle[*Image]
}

// TrackImage wraps img for use as a memoized function's tracked
// argument.
func TrackImage(img *Image) TrackedImage {
	return TrackedImage{handle: memo.NewHandle(img)}
}

// Width returns the image's current width, emitting a widthCall.
func (t *TrackedImage) Width() int {
	v := t.handle.Value.width_()
	t.handle.Emit(widthCall{}, digest.Of(v))
	return v
}

// Height returns the image's current height, emitting a heightCall.
func (t *TrackedImage) Height() int {
	v := t.handle.Value.height_()
	t.handle.Emit(heightCall{}, digest.Of(v))
	return v
}

func (t *TrackedImage) Key() digest.D128 { return digest.Zero }

func (t *TrackedImage) TryCall(call memo.Call) (digest.D128, bool) {
	switch call.(type) {
	case widthCall:
		return t.handle.Resolve(call, func() digest.D128 {
			return digest.Of(t.handle.Value.width_())
		}), true
	case heightCall:
		return t.handle.Resolve(call, func() digest.D128 {
			return digest.Of(t.handle.Value.height_())
		}), true
	default:
		return digest.D128{}, false
	}
}

func (t *TrackedImage) TryCallMut(memo.Call) bool { return false }

func (t *TrackedImage) Attach(sink memo.Sink) { t.handle.Attach(sink) }

// Describe classifies img as "big" once its width alone exceeds 50,
// without ever reading Height in that branch — so a later resize that
// changes only height leaves the cached verdict a hit, per spec.md §8
// scenario 3. Anything narrower is classified by height too, making the
// call tree branch on both dimensions in that region.
func Describe(cache *memo.Cache[string], img TrackedImage) string {
	return memo.Memoize(cache, &memo.Args1[*TrackedImage]{Arg0: &img}, true,
		func(in *memo.Args1[*TrackedImage]) string {
			if in.Arg0.Width() > 50 {
				return "big"
			}
			if in.Arg0.Height() > 50 {
				return "tall"
			}
			return "small"
		})
}

type widthCall struct{}

func (widthCall) Digest() digest.D128 { return digest.OfString("trackeddemo.Image.Width") }
func (widthCall) IsMutable() bool     { return false }

type heightCall struct{}

func (heightCall) Digest() digest.D128 { return digest.OfString("trackeddemo.Image.Height") }
func (heightCall) IsMutable() bool     { return false }
