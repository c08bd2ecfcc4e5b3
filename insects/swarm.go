// Package insects animates a swarm of wandering points.
//
// Positions are 16.16 fixed point and headings are one byte, so a run is
// bit-for-bit reproducible from its seed.
package insects

import "screenbuf/hal"

const (
	Background uint8 = 0
	Foreground uint8 = 1

	DefaultCount = 30
	DefaultSpeed = 3
	DefaultSeed  = 4

	// MaxSize and MaxSpeed keep (size+speed)<<FracBits inside an int32.
	MaxSize  = 1 << 14
	MaxSpeed = 1 << 10
)

// Insect is one point of the swarm.
type Insect struct {
	X, Y      int32 // 16.16 fixed point
	DX, DY    int32
	Heading   uint8
	Turn      uint8 // added to Heading every step, two's complement
	Speed     int32
	Countdown int // steps left before Turn is re-rolled
}

// Pixel returns the integer screen position.
func (in *Insect) Pixel() (x, y int) {
	return int(in.X >> FracBits), int(in.Y >> FracBits)
}

// Config sizes a swarm.
type Config struct {
	Count int
	Speed int
	Seed  uint32
}

// Swarm owns the insects and the random stream that drives them.
type Swarm struct {
	w, h    int32
	insects []Insect
	rng     uint32
	steps   uint64
}

// New scatters cfg.Count insects over a w x h area. Sizes and speed are
// clamped to MaxSize and MaxSpeed.
func New(w, h int, cfg Config) *Swarm {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}
	cfg.Speed = min(cfg.Speed, MaxSpeed)
	w = min(max(w, 1), MaxSize)
	h = min(max(h, 1), MaxSize)
	s := &Swarm{
		w:       int32(w),
		h:       int32(h),
		insects: make([]Insect, cfg.Count),
		rng:     cfg.Seed,
	}
	for i := range s.insects {
		s.insects[i] = Insect{
			X:     int32(s.rand(w)) << FracBits,
			Y:     int32(s.rand(h)) << FracBits,
			Speed: int32(cfg.Speed),
		}
	}
	return s
}

// Size returns the area the insects are confined to.
func (s *Swarm) Size() (w, h int) { return int(s.w), int(s.h) }

// Steps returns how many times Step has run.
func (s *Swarm) Steps() uint64 { return s.steps }

// Insects returns a copy of the current state.
func (s *Swarm) Insects() []Insect {
	out := make([]Insect, len(s.insects))
	copy(out, s.insects)
	return out
}

// Step advances every insect once.
func (s *Swarm) Step() {
	for i := range s.insects {
		s.move(&s.insects[i])
	}
	s.steps++
}

// Render clears dst and plots every insect.
func (s *Swarm) Render(dst *hal.Surface) {
	dst.Clear(Background)
	for i := range s.insects {
		x, y := s.insects[i].Pixel()
		dst.Set(x, y, Foreground)
	}
}

// Frame steps the swarm and renders it into dst.
func (s *Swarm) Frame(dst *hal.Surface) {
	s.Step()
	s.Render(dst)
}

func (s *Swarm) move(in *Insect) {
	if in.Countdown <= 0 {
		in.Countdown = s.rand(10) + 5
		in.Turn = uint8(s.rand(10) - 5)
	}

	in.Countdown--
	in.Heading += in.Turn
	in.DX = in.Speed * Cos[in.Heading]
	in.DY = in.Speed * Sin[in.Heading]
	in.X += in.DX
	in.Y += in.DY

	if in.X < 0 {
		in.X = 0
		in.bounceX(s.rand(10))
	}
	if in.X >= s.w<<FracBits {
		in.X = (s.w - 1) << FracBits
		in.bounceX(s.rand(10))
	}
	if in.Y < 0 {
		in.Y = 0
		in.bounceY(s.rand(10))
	}
	if in.Y >= s.h<<FracBits {
		in.Y = (s.h - 1) << FracBits
		in.bounceY(s.rand(10))
	}
}

// bounceX reflects off a left or right wall and keeps the new heading for a
// while so the insect walks away from it.
func (in *Insect) bounceX(r int) {
	in.Heading = ReflectX(in.Heading)
	in.Countdown = r + 10
}

func (in *Insect) bounceY(r int) {
	in.Heading = ReflectY(in.Heading)
	in.Countdown = r + 10
}

// rand returns a value in [0, n).
func (s *Swarm) rand(n int) int {
	s.rng = xorshift32(s.rng)
	return int(s.rng % uint32(n))
}

func xorshift32(x uint32) uint32 {
	if x == 0 {
		x = 0x6d2b79f5
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}
