package cpu

import (
	"runtime"
	"testing"
	"time"
)

// cpuBenchHelper wraps a CPUTestHelper with cycle/time bookkeeping for
// throughput benchmarks and regression checks.
type cpuBenchHelper struct {
	*CPUTestHelper
	cycles    uint64
	startedAt time.Time
}

func newCPUBenchHelper() *cpuBenchHelper {
	return &cpuBenchHelper{
		CPUTestHelper: NewCPUTestHelper(),
		startedAt:     time.Now(),
	}
}

func (h *cpuBenchHelper) stepTracked() uint64 {
	c := h.CPU.Step()
	h.cycles += c
	return c
}

func (h *cpuBenchHelper) cyclesPerSecond() float64 {
	elapsed := time.Since(h.startedAt)
	if elapsed.Seconds() == 0 {
		return 0
	}
	return float64(h.cycles) / elapsed.Seconds()
}

// runThroughputBench loads program at $8000, resets the benchmark timer, and
// steps the CPU b.N times, reporting instructions/sec. Every sub-benchmark in
// this file shares this exact shape, so it's factored out once here instead
// of repeated per b.Run.
func runThroughputBench(b *testing.B, setup func(h *cpuBenchHelper)) {
	h := newCPUBenchHelper()
	h.SetupResetVector(0x8000)
	setup(h)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		h.CPU.Step()
	}

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "instructions/sec")
}

// BenchmarkBasicInstructions measures throughput of frequently used
// instruction groups run in a tight loop.
func BenchmarkBasicInstructions(b *testing.B) {
	b.Run("NOP", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000, 0xEA, 0x4C, 0x00, 0x80) // NOP; JMP $8000
		})
	})

	b.Run("Register Transfers", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000, 0xAA, 0x8A, 0xA8, 0x98, 0xBA, 0x9A, 0x4C, 0x00, 0x80)
		})
	})

	b.Run("Arithmetic Operations", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000,
				0xA9, 0x10, 0x69, 0x05, 0xE9, 0x03, 0x29, 0x0F, 0x09, 0xF0, 0x49, 0xFF,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Increment/Decrement", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000, 0xE8, 0xCA, 0xC8, 0x88, 0x4C, 0x00, 0x80)
		})
	})
}

// BenchmarkAddressingModes measures throughput across the CPU's addressing
// modes so a regression in one mode's dispatch path stands out.
func BenchmarkAddressingModes(b *testing.B) {
	b.Run("Immediate", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000,
				0xA9, 0x42, 0xA2, 0x33, 0xA0, 0x55,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Zero Page", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.Memory.SetByte(0x80, 0x42)
			h.Memory.SetByte(0x81, 0x33)
			h.Memory.SetByte(0x82, 0x55)
			h.LoadProgram(0x8000,
				0xA5, 0x80, 0xA6, 0x81, 0xA4, 0x82,
				0x85, 0x83, 0x86, 0x84, 0x84, 0x85,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Zero Page Indexed", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.CPU.X = 0x05
			h.CPU.Y = 0x03
			for i := uint16(0x80); i < 0x90; i++ {
				h.Memory.SetByte(i, uint8(i))
			}
			h.LoadProgram(0x8000,
				0xB5, 0x80, 0xB4, 0x81, 0xB6, 0x82,
				0x95, 0x83, 0x94, 0x84, 0x96, 0x85,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Absolute", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.Memory.SetByte(0x3000, 0x42)
			h.Memory.SetByte(0x3001, 0x33)
			h.Memory.SetByte(0x3002, 0x55)
			h.LoadProgram(0x8000,
				0xAD, 0x00, 0x30, 0xAE, 0x01, 0x30, 0xAC, 0x02, 0x30,
				0x8D, 0x03, 0x30, 0x8E, 0x04, 0x30, 0x8C, 0x05, 0x30,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Absolute Indexed", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.CPU.X = 0x10
			h.CPU.Y = 0x08
			for i := uint16(0x3000); i < 0x3100; i++ {
				h.Memory.SetByte(i, uint8(i))
			}
			h.LoadProgram(0x8000,
				0xBD, 0x00, 0x30, 0xB9, 0x00, 0x30, 0xBE, 0x00, 0x30,
				0x9D, 0x40, 0x30, 0x99, 0x50, 0x30,
				0x4C, 0x00, 0x80)
		})
	})
}

// BenchmarkBranchInstructions measures the cost of taken vs. not-taken
// branches, and the extra cycle a page-crossing branch incurs.
func BenchmarkBranchInstructions(b *testing.B) {
	b.Run("Branch Not Taken", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000,
				0xA9, 0x00, // LDA #$00 (sets Z)
				0xD0, 0x02, // BNE +2 (not taken)
				0xEA,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Branch Taken No Page Cross", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000,
				0xA9, 0x01, // LDA #$01 (clears Z)
				0xD0, 0x01, // BNE +1 (taken)
				0xEA,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Branch Taken Page Cross", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.SetupResetVector(0x80F0)
			h.LoadProgram(0x80F0,
				0xA9, 0x01, // LDA #$01 (clears Z)
				0xD0, 0x20) // BNE +32 (crosses page)
			h.LoadProgram(0x8112, 0x4C, 0xF0, 0x80)
		})
	})
}

// BenchmarkStackOperations measures push/pull throughput for both the
// accumulator and status register.
func BenchmarkStackOperations(b *testing.B) {
	b.Run("Push/Pull Accumulator", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000, 0xA9, 0x42, 0x48, 0x68, 0x4C, 0x00, 0x80)
		})
	})

	b.Run("Push/Pull Status", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000, 0x38, 0x08, 0x18, 0x28, 0x4C, 0x00, 0x80)
		})
	})
}

// BenchmarkReadModifyWrite measures the extra read-modify-write cost of INC,
// DEC, ASL, LSR, ROL, and ROR across zero-page, absolute, and indexed forms.
func BenchmarkReadModifyWrite(b *testing.B) {
	b.Run("Zero Page RMW", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.Memory.SetByte(0x80, 0x40)
			h.Memory.SetByte(0x81, 0x80)
			h.Memory.SetByte(0x82, 0x01)
			h.LoadProgram(0x8000,
				0xE6, 0x80, 0xC6, 0x80, 0x06, 0x81, 0x46, 0x81, 0x26, 0x82, 0x66, 0x82,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Absolute RMW", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.Memory.SetByte(0x3000, 0x40)
			h.Memory.SetByte(0x3001, 0x80)
			h.LoadProgram(0x8000,
				0xEE, 0x00, 0x30, 0xCE, 0x00, 0x30, 0x0E, 0x01, 0x30, 0x4E, 0x01, 0x30,
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Indexed RMW", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.CPU.X = 0x05
			h.Memory.SetByte(0x85, 0x40)
			h.Memory.SetByte(0x3005, 0x80)
			h.LoadProgram(0x8000,
				0xF6, 0x80, 0xD6, 0x80, 0xFE, 0x00, 0x30, 0xDE, 0x00, 0x30,
				0x4C, 0x00, 0x80)
		})
	})
}

// BenchmarkComplexPrograms measures throughput on small realistic routines
// rather than isolated instructions, catching regressions that only show up
// under branchy, loop-heavy code.
func BenchmarkComplexPrograms(b *testing.B) {
	b.Run("Multiplication 8x8", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			h.LoadProgram(0x8000,
				0xA9, 0x00, 0x85, 0x02, // result = 0
				0xA9, 0x0F, 0x85, 0x00, // multiplicand = $0F
				0xA9, 0x0D, 0x85, 0x01, // multiplier = $0D

				0xA5, 0x01, // LDA $01
				0xF0, 0x0C, // BEQ +12 (done)
				0x4A, 0x85, 0x01, // LSR A; STA $01
				0x90, 0x06, // BCC +6
				0xA5, 0x02, 0x18, 0x65, 0x00, 0x85, 0x02, // ADC $00 into result
				0x06, 0x00, // ASL $00
				0x4C, 0x0E, 0x80, // loop

				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Memory Copy Loop", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			for i := uint16(0x3000); i < 0x3100; i++ {
				h.Memory.SetByte(i, uint8(i&0xFF))
			}
			h.LoadProgram(0x8000,
				0xA2, 0x00, // LDX #$00
				0xBD, 0x00, 0x30, 0x9D, 0x00, 0x31, // copy byte
				0xE8, 0xE0, 0x10, 0xD0, 0xF7, // INX; CPX #$10; BNE loop
				0x4C, 0x00, 0x80)
		})
	})

	b.Run("Sorting Algorithm", func(b *testing.B) {
		runThroughputBench(b, func(h *cpuBenchHelper) {
			testData := []uint8{0x05, 0x02, 0x08, 0x01, 0x09, 0x03, 0x07, 0x04}
			for i, v := range testData {
				h.Memory.SetByte(uint16(0x3000+i), v)
			}
			h.LoadProgram(0x8000,
				0xA2, 0x00, // LDX #$00 (i)
				0xA0, 0x00, // LDY #$00 (j)
				0xB9, 0x00, 0x30, 0xC8, 0xD9, 0x00, 0x30, 0x90, 0x0F, // compare, skip swap
				0xAA, 0xB9, 0x00, 0x30, 0x88, 0x99, 0x00, 0x30, 0x8A, 0xC8, 0x99, 0x00, 0x30, // swap
				0xC0, 0x07, 0xD0, 0xE7, // CPY #$07; BNE inner
				0xE8, 0xE0, 0x07, 0xD0, 0xE1, // INX; CPX #$07; BNE outer
				0x4C, 0x00, 0x80)
		})
	})
}

// BenchmarkCPUEmulationSpeed compares emulated cycle throughput against the
// real NES CPU's 1.789773 MHz clock.
func BenchmarkCPUEmulationSpeed(b *testing.B) {
	const realCPUFrequency = 1789773.0

	h := newCPUBenchHelper()
	h.SetupResetVector(0x8000)
	h.LoadProgram(0x8000,
		0xA9, 0x00, 0x85, 0x00, // LDA #$00; STA $00
		0xA2, 0x10, // LDX #$10
		0xA5, 0x00, 0x18, 0x69, 0x01, 0x85, 0x00, // LDA $00; CLC; ADC #$01; STA $00
		0xCA, 0xD0, 0xF7, // DEX; BNE loop
		0x4C, 0x00, 0x80)

	b.ResetTimer()
	h.startedAt = time.Now()

	for i := 0; i < b.N; i++ {
		h.stepTracked()
	}

	emulatedFrequency := h.cyclesPerSecond()

	b.ReportMetric(emulatedFrequency, "cycles/sec")
	b.ReportMetric(emulatedFrequency/realCPUFrequency, "speed_ratio")
	b.ReportMetric(emulatedFrequency/1000000, "MHz")
}

// perfThresholds holds the regression floor for each metric checked by
// TestCPUPerformanceRegression. These are deliberately loose - the intent is
// to catch a gross slowdown, not to micro-track performance.
type perfThresholds struct {
	minInstructionsPerSec float64
	minCyclesPerSec       float64
	maxBytesPerInstr      uint64
}

var defaultPerfThresholds = perfThresholds{
	minInstructionsPerSec: 100000,
	minCyclesPerSec:       200000,
	maxBytesPerInstr:      100,
}

// TestCPUPerformanceRegression guards against gross throughput or allocation
// regressions in CPU.Step. It's skipped under -short since wall-clock
// thresholds are inherently noisy on shared CI hardware.
func TestCPUPerformanceRegression(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CPU performance regression test in short mode")
	}

	thresholds := defaultPerfThresholds

	t.Run("Instruction execution regression", func(t *testing.T) {
		h := newCPUBenchHelper()
		h.SetupResetVector(0x8000)
		h.LoadProgram(0x8000, 0xEA, 0x4C, 0x00, 0x80) // NOP; JMP $8000

		const iterations = 10000
		start := time.Now()
		for i := 0; i < iterations; i++ {
			h.CPU.Step()
		}
		rate := float64(iterations) / time.Since(start).Seconds()

		t.Logf("instruction throughput: %.0f/sec", rate)
		if rate < thresholds.minInstructionsPerSec {
			t.Errorf("instruction throughput regression: %.0f < %.0f/sec", rate, thresholds.minInstructionsPerSec)
		}
	})

	t.Run("Cycle execution regression", func(t *testing.T) {
		h := newCPUBenchHelper()
		h.SetupResetVector(0x8000)
		h.LoadProgram(0x8000,
			0xA9, 0x42, // LDA #$42 (2 cycles)
			0x85, 0x00, // STA $00 (3 cycles)
			0xA5, 0x00, // LDA $00 (3 cycles)
			0x4C, 0x00, 0x80) // JMP $8000 (3 cycles)

		const iterations = 1000
		start := time.Now()
		var totalCycles uint64
		for i := 0; i < iterations*4; i++ {
			totalCycles += h.CPU.Step()
		}
		rate := float64(totalCycles) / time.Since(start).Seconds()

		t.Logf("cycle throughput: %.0f/sec", rate)
		if rate < thresholds.minCyclesPerSec {
			t.Errorf("cycle throughput regression: %.0f < %.0f/sec", rate, thresholds.minCyclesPerSec)
		}
	})

	t.Run("Memory allocation regression", func(t *testing.T) {
		h := newCPUBenchHelper()
		h.SetupResetVector(0x8000)
		h.LoadProgram(0x8000, 0xEA, 0x4C, 0x00, 0x80)

		var before, after runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&before)

		const iterations = 1000
		for i := 0; i < iterations; i++ {
			h.CPU.Step()
		}

		runtime.GC()
		runtime.ReadMemStats(&after)

		allocated := after.TotalAlloc - before.TotalAlloc
		perInstr := allocated / iterations

		t.Logf("allocation: %d bytes over %d instructions (%.1f bytes/instruction)",
			allocated, iterations, float64(perInstr))
		if perInstr > thresholds.maxBytesPerInstr {
			t.Errorf("allocation regression: %d > %d bytes/instruction", perInstr, thresholds.maxBytesPerInstr)
		}
	})
}
