package gwutils

import (
	"fmt"
	"testing"
)

func TestRunPanicless(t *testing.T) {
	if !RunPanicless(func() {
		panic(1)
	}) {
		t.Errorf("should report panic")
	}
	if !RunPanicless(func() {
		panic(fmt.Errorf("bad"))
	}) {
		t.Errorf("should report panic")
	}
	if RunPanicless(func() {}) {
		t.Errorf("should not report panic")
	}
}

func TestRepeatUntilPanicless(t *testing.T) {
	n := 0
	RepeatUntilPanicless(func() {
		n += 1
		if n < 3 {
			panic(n)
		}
	})
	if n != 3 {
		t.Errorf("should run 3 times, but ran %d times", n)
	}
}

func TestClampFloat32(t *testing.T) {
	if v := ClampFloat32(60, 0, 56); v != 56 {
		t.Errorf("got %v", v)
	}
	if v := ClampFloat32(-1, 0, 56); v != 0 {
		t.Errorf("got %v", v)
	}
	if v := ClampFloat32(7.5, 0, 56); v != 7.5 {
		t.Errorf("got %v", v)
	}
}
