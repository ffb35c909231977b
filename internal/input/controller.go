// Package input implements the NES's two gamepad controllers: latched
// 8-bit shift registers read one bit per access to $4016/$4017.
package input

import "log"

// Button identifies one of the eight buttons on a standard NES pad, ordered
// LSB-first the way the hardware shift register presents them.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a single NES gamepad: a live button-state register plus the
// shift register that $4016/$4017 reads pull from one bit at a time.
type Controller struct {
	buttons       uint8
	strobe        bool
	shiftRegister uint8

	debugEnabled bool
}

// New creates a controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or clears a single button's live state.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
	if c.strobe {
		c.shiftRegister = c.buttons
	}
	if c.debugEnabled {
		log.Printf("[controller] SetButton %02x pressed=%t buttons=%02x", uint8(button), pressed, c.buttons)
	}
}

// SetButtons replaces all eight button states at once, in A,B,Select,Start,
// Up,Down,Left,Right order.
func (c *Controller) SetButtons(buttons [8]bool) {
	var b uint8
	for i, pressed := range buttons {
		if pressed {
			b |= 1 << uint(i)
		}
	}
	c.buttons = b
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// IsPressed reports whether a button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Strobe sets the strobe latch. While held high the shift register
// continuously reloads from live button state; the falling edge captures a
// stable snapshot for the read sequence that follows.
func (c *Controller) Strobe(latch bool) {
	c.strobe = latch
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// Write handles a CPU write to the controller's strobe line (bit 0); the
// remaining bits are unused by a standard pad.
func (c *Controller) Write(value uint8) {
	c.Strobe(value&1 != 0)
}

// Read shifts one bit out of the register into bit 0 of the return value.
// Bits 1-5 are always clear and bit 6 is always set, matching the open-bus
// behavior real pads exhibit on the unused lines of $4016/$4017; once the
// register is exhausted, subsequent reads keep returning 1 in bit 0 too.
func (c *Controller) Read() uint8 {
	var bit uint8
	if c.strobe {
		bit = c.buttons & 1
	} else {
		bit = c.shiftRegister & 1
		c.shiftRegister = (c.shiftRegister >> 1) | 0x80
	}
	return bit | 0x40
}

// Reset clears button state and the shift register.
func (c *Controller) Reset() {
	c.buttons = 0
	c.strobe = false
	c.shiftRegister = 0
}

// EnableDebug turns on diagnostic logging for button state transitions.
func (c *Controller) EnableDebug(enable bool) {
	c.debugEnabled = enable
}

// InputState owns both gamepad ports wired to $4016/$4017.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates a fresh pair of controllers.
func NewInputState() *InputState {
	return &InputState{Controller1: New(), Controller2: New()}
}

// Reset resets both controllers.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// EnableDebug toggles diagnostic logging on both controllers.
func (is *InputState) EnableDebug(enable bool) {
	is.Controller1.EnableDebug(enable)
	is.Controller2.EnableDebug(enable)
}

// SetButtons1 sets controller 1's button state.
func (is *InputState) SetButtons1(buttons [8]bool) {
	is.Controller1.SetButtons(buttons)
}

// SetButtons2 sets controller 2's button state.
func (is *InputState) SetButtons2(buttons [8]bool) {
	is.Controller2.SetButtons(buttons)
}

// Read services a CPU read of $4016 (controller 1) or $4017 (controller 2).
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read()
	default:
		return 0
	}
}

// Write services a CPU write to $4016: bit 0 is the shared strobe line that
// latches (or continuously reloads) both controllers, since both pads sit on
// the same wire.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}
