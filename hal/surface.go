package hal

// Surface is a locked view of one screen buffer.
type Surface struct {
	ID     BufferID
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Pix    []byte
}

func newSurface(id BufferID, m Mode) *Surface {
	bpp := m.Format.BytesPerPixel()
	stride := m.Width * bpp
	// Round rows up to 16 bytes the way RTG boards pad their bitmaps.
	if rem := stride % 16; rem != 0 {
		stride += 16 - rem
	}
	return &Surface{
		ID:     id,
		Width:  m.Width,
		Height: m.Height,
		Stride: stride,
		Format: m.Format,
		Pix:    make([]byte, stride*m.Height),
	}
}

// Row returns the pixels of row y, excluding stride padding.
func (s *Surface) Row(y int) []byte {
	off := y * s.Stride
	return s.Pix[off : off+s.Width*s.Format.BytesPerPixel()]
}

// Clear fills every byte of the surface, padding included, with idx.
func (s *Surface) Clear(idx uint8) {
	if idx == 0 {
		clear(s.Pix)
		return
	}
	for i := range s.Pix {
		s.Pix[i] = idx
	}
}

// Set writes palette index idx at (x, y). Out of range writes are dropped.
func (s *Surface) Set(x, y int, idx uint8) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	s.Pix[y*s.Stride+x] = idx
}

// At returns the palette index at (x, y), or 0 outside the surface.
func (s *Surface) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0
	}
	return s.Pix[y*s.Stride+x]
}
