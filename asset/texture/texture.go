package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/achilleasa/polaris-bench/asset"
	"github.com/nfnt/resize"
	perrors "github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("texture: image has zero area")

// Decoded images larger than this along either axis are scaled down,
// keeping their aspect ratio.
var MaxSize uint = 2048

// A texture image and its metadata. Float formats store each channel as a
// little-endian float32.
type Texture struct {
	Name   string
	Format Format

	Width  uint32
	Height uint32

	Data []byte
}

// Create a new texture from a Resource. The resource is consumed and closed.
func New(res *asset.Resource) (*Texture, error) {
	data, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, perrors.Wrapf(err, "texture: could not decode %s", res.Path())
	}

	if b := img.Bounds(); uint(b.Dx()) > MaxSize || uint(b.Dy()) > MaxSize {
		img = resize.Thumbnail(MaxSize, MaxSize, img, resize.Bilinear)
	}

	return FromImage(res.Name(), img)
}

// Load a texture from a local path or URL.
func Load(pathToTexture string, relTo *asset.Resource) (*Texture, error) {
	res, err := asset.NewResource(pathToTexture, relTo)
	if err != nil {
		return nil, err
	}
	return New(res)
}

// Convert an image into a texture. 8-bit sources map to Luminance8/Rgba8 and
// 16-bit sources map to Luminance32F/Rgba32F.
func FromImage(name string, img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	var texFmt Format
	switch img.(type) {
	case *image.Gray:
		texFmt = Luminance8
	case *image.Gray16:
		texFmt = Luminance32F
	case *image.RGBA64, *image.NRGBA64:
		texFmt = Rgba32F
	default:
		texFmt = Rgba8
	}

	tex := &Texture{
		Name:   name,
		Format: texFmt,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
	tex.Data = make([]byte, int(tex.Width*tex.Height)*texFmt.Stride())

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			switch texFmt {
			case Luminance8:
				tex.Data[offset] = uint8(c.R >> 8)
			case Rgba8:
				tex.Data[offset] = uint8(c.R >> 8)
				tex.Data[offset+1] = uint8(c.G >> 8)
				tex.Data[offset+2] = uint8(c.B >> 8)
				tex.Data[offset+3] = uint8(c.A >> 8)
			case Luminance32F:
				putFloat(tex.Data[offset:], float32(c.R)/0xffff)
			case Rgba32F:
				putFloat(tex.Data[offset:], float32(c.R)/0xffff)
				putFloat(tex.Data[offset+4:], float32(c.G)/0xffff)
				putFloat(tex.Data[offset+8:], float32(c.B)/0xffff)
				putFloat(tex.Data[offset+12:], float32(c.A)/0xffff)
			}
			offset += texFmt.Stride()
		}
	}

	return tex, nil
}

// Fetch the texel at (u, v) with wrap-around addressing. Channels are
// returned in the [0, 1] range.
func (t *Texture) Sample(u, v float32) [4]float32 {
	u -= float32(math.Floor(float64(u)))
	v -= float32(math.Floor(float64(v)))
	x := uint32(u * float32(t.Width))
	y := uint32(v * float32(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.texel(int(y*t.Width+x) * t.Format.Stride())
}

// Mean color over all texels. Used as the ambient term of the reflection map.
func (t *Texture) Average() [4]float32 {
	var sum [4]float64
	count := int(t.Width * t.Height)
	for i := 0; i < count; i++ {
		texel := t.texel(i * t.Format.Stride())
		for c := 0; c < 4; c++ {
			sum[c] += float64(texel[c])
		}
	}

	var out [4]float32
	for c := 0; c < 4; c++ {
		out[c] = float32(sum[c] / float64(count))
	}
	return out
}

func (t *Texture) texel(offset int) [4]float32 {
	switch t.Format {
	case Luminance8:
		l := float32(t.Data[offset]) / 255
		return [4]float32{l, l, l, 1}
	case Luminance32F:
		l := getFloat(t.Data[offset:])
		return [4]float32{l, l, l, 1}
	case Rgba8:
		return [4]float32{
			float32(t.Data[offset]) / 255,
			float32(t.Data[offset+1]) / 255,
			float32(t.Data[offset+2]) / 255,
			float32(t.Data[offset+3]) / 255,
		}
	default:
		return [4]float32{
			getFloat(t.Data[offset:]),
			getFloat(t.Data[offset+4:]),
			getFloat(t.Data[offset+8:]),
			getFloat(t.Data[offset+12:]),
		}
	}
}

func putFloat(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func getFloat(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}
