package utils

type ColorFloat [4]float32

func (c *ColorFloat) RGBA() (r, g, b, a uint32) {
	const mf = float32(256*256 - 1)
	r = uint32(c[0] * mf)
	g = uint32(c[1] * mf)
	b = uint32(c[2] * mf)
	a = uint32(c[3] * mf)
	return
}

func NewColorFloat(c []float32) ColorFloat {
	return ColorFloat{c[0], c[1], c[2], 1.0}
}

// NewColorFloatARGB reorders an on-disk ARGB quad into RGBA.
func NewColorFloatARGB(argb [4]float32) ColorFloat {
	return ColorFloat{argb[1], argb[2], argb[3], argb[0]}
}
