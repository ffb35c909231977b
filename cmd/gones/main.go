// Command gones runs the NES emulator core against a window backed by
// Ebitengine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"gones/internal/bus"
	"gones/internal/graphics"
	"gones/internal/harness"
	"gones/internal/input"
	"gones/internal/rom"
)

func main() {
	var (
		romPath = flag.String("rom", "", "path to an iNES ROM file")
		scale   = flag.Int("scale", 3, "window scale factor")
	)
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gones -rom <file.nes> [-scale N]")
		os.Exit(2)
	}

	cart, err := rom.Load(*romPath)
	if err != nil {
		log.Fatalf("loading %s: %v", *romPath, err)
	}

	b := bus.New()
	sink := graphics.NewEbitenSink("gones", *scale)
	h := harness.New(b, sink, nil)
	h.LoadCartridge(cart)

	err = sink.Run(func() error {
		pollInput(h)
		return h.RunFrame()
	})
	if err != nil {
		log.Fatalf("run: %v", err)
	}
}

var keymap1 = map[ebiten.Key]input.Button{
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyBackspace:  input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

// pollInput reads the host keyboard and mirrors it onto controller port 1.
func pollInput(h *harness.Harness) {
	for key, button := range keymap1 {
		h.SetButton(1, button, ebiten.IsKeyPressed(key))
	}
}
