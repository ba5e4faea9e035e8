package controller

import "testing"

func TestStandardReadOrder(t *testing.T) {
	var c Controller
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.SetButton(ButtonRight, true)

	c.Write(1) // strobe high
	c.Write(0) // falling edge latches

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("read %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadsPastEightReturnOne(t *testing.T) {
	var c Controller
	c.SetButton(ButtonA, true)
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("read %d past the eighth = %d, want 1", i, got)
		}
	}
}

func TestContinuousStrobeRelatchesA(t *testing.T) {
	var c Controller
	c.Write(1) // strobe held high
	c.SetButton(ButtonA, true)
	if got := c.Read(); got != 1 {
		t.Errorf("read while strobed high = %d, want 1 (live A state)", got)
	}
	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Errorf("read while strobed high = %d, want 0 after release", got)
	}
}

func TestSetButtonClearsBit(t *testing.T) {
	var c Controller
	c.SetButton(ButtonB, true)
	c.SetButton(ButtonB, false)
	c.Write(1)
	c.Write(0)
	if got := c.Read(); got != 0 {
		t.Errorf("B after set-then-clear = %d, want 0", got)
	}
}
