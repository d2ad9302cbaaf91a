package texture

type Format uint32

const (
	Luminance8 Format = iota
	Luminance32F
	Rgba8
	Rgba32F
)

// Bytes per texel for the format.
func (f Format) Stride() int {
	switch f {
	case Luminance8:
		return 1
	case Luminance32F, Rgba8:
		return 4
	default:
		return 16
	}
}

func (f Format) String() string {
	switch f {
	case Luminance8:
		return "Luminance8"
	case Luminance32F:
		return "Luminance32F"
	case Rgba8:
		return "Rgba8"
	case Rgba32F:
		return "Rgba32F"
	}
	return "Unknown"
}
