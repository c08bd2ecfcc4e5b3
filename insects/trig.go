package insects

import "math"

// Headings are one byte: 256 steps per full turn.
const (
	HeadingSteps = 256

	// FracBits is the number of fractional bits in positions and table values.
	FracBits = 16
	One      = 1 << FracBits
)

// Cos and Sin hold trunc(One * cos/sin(2*pi*i/256)).
var (
	Cos [HeadingSteps]int32
	Sin [HeadingSteps]int32
)

func init() {
	for i := 0; i < HeadingSteps; i++ {
		rad := float64(i) * math.Pi * 2 / HeadingSteps
		Sin[i] = int32(One * math.Sin(rad))
		Cos[i] = int32(One * math.Cos(rad))
	}
}

// ReflectX mirrors a heading off a vertical wall (left or right edge).
func ReflectX(h uint8) uint8 { return 128 - h }

// ReflectY mirrors a heading off a horizontal wall (top or bottom edge).
func ReflectY(h uint8) uint8 { return 0 - h }
