// Package harness advances a Bus one frame per RunFrame call and forwards
// completed frames and audio samples to external sinks, without taking on
// any of the adaptive timing, pooling, or performance telemetry the
// original application-layer loop carried.
package harness

import (
	"fmt"

	"gones/internal/bus"
	"gones/internal/input"
	"gones/internal/memory"
)

// Harness wires a Bus to a video sink and an optional audio sink and
// advances emulation one frame at a time.
type Harness struct {
	Bus   *bus.Bus
	Video bus.VideoSink
	Audio bus.AudioSink
}

// New creates a harness around an already-constructed bus. video must not
// be nil; audio may be nil if the caller does not want sound output.
func New(b *bus.Bus, video bus.VideoSink, audio bus.AudioSink) *Harness {
	return &Harness{Bus: b, Video: video, Audio: audio}
}

// LoadCartridge loads a cartridge into the underlying bus and resets it.
func (h *Harness) LoadCartridge(cart memory.CartridgeInterface) {
	h.Bus.LoadCartridge(cart)
}

// RunFrame advances emulation by exactly one PPU frame and presents the
// result to the configured sinks.
func (h *Harness) RunFrame() error {
	if h.Bus == nil {
		return fmt.Errorf("harness: bus not initialized")
	}

	h.Bus.StepFrame()

	if h.Video != nil {
		h.Video.Present(h.Bus.GetFrameBuffer())
	}
	if h.Audio != nil {
		if samples := h.Bus.GetAudioSamples(); len(samples) > 0 {
			h.Audio.WriteSamples(samples)
		}
	}

	return nil
}

// SetButton forwards a single button state change to the given controller
// port (1 or 2).
func (h *Harness) SetButton(port int, button input.Button, pressed bool) {
	h.Bus.SetControllerButton(port, button, pressed)
}

// FrameCount returns the number of frames the bus has completed.
func (h *Harness) FrameCount() uint64 {
	return h.Bus.GetFrameCount()
}
