package mos6502

import "testing"

type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU(resetVector uint16) (*CPU, *testBus) {
	b := &testBus{}
	b.mem[0xFFFC] = uint8(resetVector)
	b.mem[0xFFFD] = uint8(resetVector >> 8)
	return New(b), b
}

func TestResetState(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	if c.SP() != 0xFD {
		t.Errorf("SP = %#x, want 0xFD", c.SP())
	}
	if c.P()&FlagI == 0 || c.P()&FlagU == 0 {
		t.Errorf("P = %#x, want InterruptDisable and Unused set", c.P())
	}
	if c.PC() != 0x8000 {
		t.Errorf("PC = %#x, want 0x8000", c.PC())
	}
}

// Scenario A from the specification.
func TestScenarioASmallProgram(t *testing.T) {
	c, b := newTestCPU(0x8000)
	prog := []uint8{0xA9, 0x42, 0xAA, 0xE8, 0x85, 0x10, 0x00}
	copy(b.mem[0x8000:], prog)
	b.mem[0xFFFE] = 0x00
	b.mem[0xFFFF] = 0x90 // IRQ/BRK vector

	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.A() != 0x42 {
		t.Errorf("A = %#x, want 0x42", c.A())
	}
	if c.X() != 0x43 {
		t.Errorf("X = %#x, want 0x43", c.X())
	}
	if b.mem[0x10] != 0x42 {
		t.Errorf("RAM[0x10] = %#x, want 0x42", b.mem[0x10])
	}

	if _, err := c.Step(); err != nil {
		t.Fatalf("BRK step: %v", err)
	}
	if c.PC() != 0x9000 {
		t.Errorf("after BRK, PC = %#x, want 0x9000", c.PC())
	}
	if c.P()&FlagI == 0 {
		t.Errorf("after BRK, InterruptDisable should be set")
	}
}

func TestStackWrap(t *testing.T) {
	c, b := newTestCPU(0x8000)
	c.sp = 0x00
	c.push8(0xAB)
	if c.sp != 0xFF {
		t.Errorf("SP after push at 0x00 = %#x, want 0xFF", c.sp)
	}
	if b.mem[0x0100] != 0xAB {
		t.Errorf("push at SP=0 must land at $0100, got %#x", b.mem[0x0100])
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	for _, v := range []uint8{0x00, 0x7F, 0x80, 0xFF, 0x42} {
		c.push8(v)
		if got := c.pull8(); got != v {
			t.Errorf("push/pull(%#x) = %#x", v, got)
		}
	}
}

func TestADCOverflowDirect(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0x69 // ADC #imm
	b.mem[0x8001] = 0x10
	c.a = 0x7F
	c.setFlag(FlagC, false)
	if _, err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.a != 0x8F {
		t.Errorf("A = %#x, want 0x8F", c.a)
	}
	if !c.flag(FlagV) {
		t.Errorf("Overflow should be set for 0x7F + 0x10")
	}
	if !c.flag(FlagN) {
		t.Errorf("Negative should be set for result 0x8F")
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0x6C // JMP (ind)
	b.mem[0x8001] = 0xFF
	b.mem[0x8002] = 0x20 // pointer = $20FF
	b.mem[0x20FF] = 0x00
	b.mem[0x2000] = 0x40 // high byte wrongly fetched from $2000, not $2100
	b.mem[0x2100] = 0x99

	if _, err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.PC() != 0x4000 {
		t.Errorf("PC = %#x, want 0x4000 (page-wrap bug)", c.PC())
	}
}

func TestBranchPageCrossExtraCycle(t *testing.T) {
	c, b := newTestCPU(0x80F6)
	b.mem[0x80F6] = 0xF0 // BEQ
	b.mem[0x80F7] = 0x10 // pc-after-operand 0x80F8 + 0x10 = 0x8108, crossing a page boundary
	c.setFlag(FlagZ, true)

	cycles, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4 (2 base + 1 taken + 1 page-cross)", cycles)
	}
}

func TestKILHalts(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0x02 // KIL
	if _, err := c.Step(); err == nil {
		t.Fatal("expected halt error from KIL")
	}
	if !c.Halted() {
		t.Error("CPU should report halted after KIL")
	}
	if _, err := c.Step(); err == nil {
		t.Error("stepping a halted CPU should keep returning the halt error")
	}
}

func TestUnknownOpcodeHalts(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0x0B // ANC, not implemented -> fatal halt
	if _, err := c.Step(); err == nil {
		t.Fatal("expected halt error for unimplemented opcode")
	}
}

func TestSLO(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0x07 // SLO zp
	b.mem[0x8001] = 0x10
	b.mem[0x0010] = 0xC1 // 1100_0001
	c.a = 0x01
	if _, err := c.Step(); err != nil {
		t.Fatal(err)
	}
	// ASL 0xC1 -> carry=1, mem=0x82; A = 0x01 | 0x82 = 0x83
	if b.mem[0x0010] != 0x82 {
		t.Errorf("mem[0x10] = %#x, want 0x82", b.mem[0x0010])
	}
	if c.a != 0x83 {
		t.Errorf("A = %#x, want 0x83", c.a)
	}
	if !c.flag(FlagC) {
		t.Errorf("Carry should be set from the pre-shift top bit")
	}
}

func TestOAMDMACyclesFoldIntoStep(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0x8000] = 0xEA // NOP
	c.AddDMACycles(513)
	cycles, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 2+513 {
		t.Errorf("cycles = %d, want %d", cycles, 2+513)
	}
}

func TestNMIDispatch(t *testing.T) {
	c, b := newTestCPU(0x8000)
	b.mem[0xFFFA] = 0x00
	b.mem[0xFFFB] = 0xA0
	c.NMI()
	if _, err := c.Step(); err != nil {
		t.Fatal(err)
	}
	if c.PC() != 0xA000 {
		t.Errorf("PC after NMI = %#x, want 0xA000", c.PC())
	}
}
