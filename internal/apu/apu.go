// Package apu implements the Audio Processing Unit register file for the NES.
//
// This is an opaque register model, not a cycle-accurate synthesizer: the
// five channels (2 pulse, triangle, noise, DMC) are represented only by the
// bytes the CPU wrote to them. Nothing here clocks envelopes, sweeps, or
// length counters against real waveform tables; the model exists to give the
// bus a correct $4000-$4017 read/write surface and a sample stream an
// AudioSink can drain, not to reproduce 2A03 audio output.
package apu

// register offsets within the $4000-$4013 block
const (
	regCount = 0x14 // $4000-$4013 inclusive
)

// APU represents the NES Audio Processing Unit register file.
type APU struct {
	// Raw register storage for $4000-$4013 (pulse1, pulse2, triangle,
	// noise, DMC). The core never decodes these into waveform state; it
	// only needs to answer reads/writes and let the sample stream carry a
	// coarse volume-derived level.
	registers [regCount]uint8

	// $4015 write value: channel enable bits (bit0 pulse1 .. bit4 DMC).
	channelEnable uint8

	// $4015 read-only status bits not derived from channelEnable.
	dmcIRQFlag   bool
	frameIRQFlag bool

	// $4017 frame counter register.
	frameMode       bool // false = 4-step, true = 5-step
	frameIRQInhibit bool

	// Sample stream.
	sampleBuffer     []float32
	sampleRate       int
	cpuFrequency     float64
	cycleAccumulator float64

	cycles uint64
}

// New creates a new APU register file with a default 44.1kHz sample rate.
func New() *APU {
	a := &APU{
		sampleRate:   44100,
		cpuFrequency: 1789773, // NTSC 2A03 clock, Hz
	}
	a.sampleBuffer = make([]float32, 0, 1024)
	return a
}

// Reset clears all registers and the frame counter to power-up state.
func (a *APU) Reset() {
	for i := range a.registers {
		a.registers[i] = 0
	}
	a.channelEnable = 0
	a.dmcIRQFlag = false
	a.frameIRQFlag = false
	a.frameMode = false
	a.frameIRQInhibit = false
	a.cycleAccumulator = 0
	a.cycles = 0
	a.sampleBuffer = a.sampleBuffer[:0]
}

// WriteRegister stores a write to an APU register ($4000-$4013, $4015,
// $4017). The bus is expected to mask the address before calling this.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address == 0x4015:
		a.channelEnable = value & 0x1F
		if value&0x10 == 0 {
			a.dmcIRQFlag = false
		}
	case address == 0x4017:
		a.frameMode = value&0x80 != 0
		a.frameIRQInhibit = value&0x40 != 0
		if a.frameIRQInhibit {
			a.frameIRQFlag = false
		}
	case address >= 0x4000 && address < 0x4000+regCount:
		a.registers[address-0x4000] = value
	}
}

// ReadStatus handles the $4015 read: channel-enable echo plus the two IRQ
// flags. Reading clears the frame IRQ flag, matching the 2A03 contract.
func (a *APU) ReadStatus() uint8 {
	status := a.channelEnable & 0x1F
	if a.frameIRQFlag {
		status |= 0x40
	}
	if a.dmcIRQFlag {
		status |= 0x80
	}
	a.frameIRQFlag = false
	return status
}

// Step advances the register file by one CPU cycle. The opaque model has no
// channel timers to clock; it only accumulates a coarse audio sample at the
// configured output rate so AudioSink consumers keep receiving a stream.
func (a *APU) Step() {
	a.cycles++

	if a.sampleRate <= 0 {
		return
	}

	a.cycleAccumulator += float64(a.sampleRate)
	for a.cycleAccumulator >= a.cpuFrequency {
		a.cycleAccumulator -= a.cpuFrequency
		a.sampleBuffer = append(a.sampleBuffer, a.currentLevel())
	}
}

// currentLevel derives a coarse output level from the enabled channels'
// volume/duty nibbles. It is not a waveform; it is a DC approximation
// suitable for a "simple register model" per the Non-goals.
func (a *APU) currentLevel() float32 {
	if a.channelEnable == 0 {
		return 0
	}

	var level float32
	if a.channelEnable&0x01 != 0 { // pulse1 volume nibble, register $4000
		level += float32(a.registers[0x00]&0x0F) / 15.0
	}
	if a.channelEnable&0x02 != 0 { // pulse2 volume nibble, register $4004
		level += float32(a.registers[0x04]&0x0F) / 15.0
	}
	if a.channelEnable&0x04 != 0 { // triangle is always full-scale when enabled
		level += 0.5
	}
	if a.channelEnable&0x08 != 0 { // noise volume nibble, register $400C
		level += float32(a.registers[0x0C]&0x0F) / 15.0
	}

	return level / 4.0
}

// GetSamples drains and returns the accumulated sample buffer.
func (a *APU) GetSamples() []float32 {
	samples := a.sampleBuffer
	a.sampleBuffer = make([]float32, 0, 1024)
	return samples
}

// SetSampleRate sets the target output sample rate in Hz.
func (a *APU) SetSampleRate(rate int) {
	a.sampleRate = rate
}

// GetSampleRate returns the configured output sample rate in Hz.
func (a *APU) GetSampleRate() int {
	return a.sampleRate
}

// IsChannelEnabled reports whether the given channel (0=pulse1, 1=pulse2,
// 2=triangle, 3=noise, 4=DMC) is enabled per the last $4015 write.
func (a *APU) IsChannelEnabled(channel int) bool {
	if channel < 0 || channel > 4 {
		return false
	}
	return a.channelEnable&(1<<uint(channel)) != 0
}
