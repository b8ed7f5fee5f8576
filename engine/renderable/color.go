package renderable

import m "math"

// HSVToRGB converts a hue in [0, 1), saturation and value into RGB.
func HSVToRGB(h, s, v float32) [3]float32 {
	c := v * s
	x := c * (1.0 - float32(m.Abs(m.Mod(float64(h*6.0), 2.0)-1.0)))
	mm := v - c

	var r, g, b float32
	switch {
	case h < 1.0/6.0:
		r, g, b = c, x, 0
	case h < 2.0/6.0:
		r, g, b = x, c, 0
	case h < 3.0/6.0:
		r, g, b = 0, c, x
	case h < 4.0/6.0:
		r, g, b = 0, x, c
	case h < 5.0/6.0:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return [3]float32{r + mm, g + mm, b + mm}
}
