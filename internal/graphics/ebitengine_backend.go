// Package graphics adapts the core's VideoSink interface to a visible
// window using Ebitengine, the teacher repository's sole third-party
// dependency. It deliberately does not reimplement window/input polling
// beyond what presenting a frame requires — that is out of the core's
// scope per spec.
package graphics

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	frameWidth  = 256
	frameHeight = 240
)

// EbitenSink implements bus.VideoSink by blitting the 256x240 RGBA frame
// produced each PPU frame into an *ebiten.Image and presenting it through
// ebiten.Game.Draw. Present is expected to be called from within the
// update callback passed to Run, so it shares Ebitengine's single game
// goroutine with Draw and needs no locking.
type EbitenSink struct {
	title string
	scale int

	image  *ebiten.Image
	buf    *image.RGBA
	frame  [frameWidth * frameHeight]uint32
	dirty  bool
}

// NewEbitenSink creates a sink that will open a window titled title, scaled
// by scale (1 = native 256x240).
func NewEbitenSink(title string, scale int) *EbitenSink {
	if scale < 1 {
		scale = 1
	}
	return &EbitenSink{
		title: title,
		scale: scale,
		image: ebiten.NewImage(frameWidth, frameHeight),
		buf:   image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight)),
	}
}

// Present implements bus.VideoSink. It copies frame into the sink's own
// buffer; the caller retains no reference to frame afterward but the sink
// must not retain the passed slice itself.
func (s *EbitenSink) Present(frame []uint32) {
	copy(s.frame[:], frame)
	s.dirty = true
}

// Run opens the window and blocks in Ebitengine's game loop until the
// window is closed. It is the harness's caller that starts Run, typically
// on the same goroutine that also drives Bus.StepFrame via Update.
func (s *EbitenSink) Run(update func() error) error {
	ebiten.SetWindowTitle(s.title)
	ebiten.SetWindowSize(frameWidth*s.scale, frameHeight*s.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&ebitenGame{sink: s, update: update})
}

type ebitenGame struct {
	sink   *EbitenSink
	update func() error
}

func (g *ebitenGame) Update() error {
	if g.update != nil {
		return g.update()
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	s := g.sink
	if s.dirty {
		for y := 0; y < frameHeight; y++ {
			for x := 0; x < frameWidth; x++ {
				pixel := s.frame[y*frameWidth+x]
				s.buf.SetRGBA(x, y, color.RGBA{
					R: uint8(pixel >> 16),
					G: uint8(pixel >> 8),
					B: uint8(pixel),
					A: 255,
				})
			}
		}
		s.image.ReplacePixels(s.buf.Pix)
		s.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(s.scale), float64(s.scale))
	screen.DrawImage(s.image, op)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return frameWidth * g.sink.scale, frameHeight * g.sink.scale
}
