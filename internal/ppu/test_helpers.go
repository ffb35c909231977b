package ppu

// Test helper methods for PPU testing

// SetFrameBufferForTesting sets a frame buffer for testing purposes
func (p *PPU) SetFrameBufferForTesting(frameBuffer [256 * 240]uint32) {
	p.frameBuffer = frameBuffer
}

// renderBackgroundTile points v at the left edge of nametable row tileY,
// primes the background shift registers the way real hardware does during
// the previous scanline's dots 321-336, then renders the given scanline as
// a freshly started one (sprite evaluation runs again at dot 1) from dot 1
// through the last dot of tile tileX, so that tile's pixels land at
// x = tileX*8 .. tileX*8+7. A single renderCycle() call can never produce
// a correct background pixel on its own: the shift registers hold whatever
// the fetch pipeline loaded up to two tiles earlier, so tests need this
// instead of jumping straight to an arbitrary (scanline, cycle).
func renderBackgroundTile(p *PPU, tileX, tileY, scanline int) {
	p.v = uint16(tileY&0x1F) << 5
	p.lastEvalScanline = -999

	p.scanline = -1
	for c := 321; c <= 336; c++ {
		p.cycle = c
		p.renderCycle()
	}

	p.scanline = scanline
	for c := 1; c <= (tileX&0x1F)*8+8; c++ {
		p.cycle = c
		p.renderCycle()
	}
}

// renderSpriteDot evaluates sprites for the given scanline, as dot 1 of
// that scanline does, then renders the given dot. renderCycle evaluates
// sprites only at dot 1, so a test that jumps straight to a later dot
// would otherwise render from a stale or empty secondary OAM.
func renderSpriteDot(p *PPU, scanline, cycle int) {
	p.scanline = scanline
	p.evaluateSprites()
	p.cycle = cycle
	p.renderCycle()
}