package gwutils

import "github.com/Dynat/alpha-core/engine/gwlog"

// RunPanicless calls a function panic-freely
func RunPanicless(f func()) (panicked bool) {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("%v panic: %v", f, err)
			panicked = true
		}
	}()

	f()
	return
}

// RepeatUntilPanicless runs the function repeatly until there is no panic
func RepeatUntilPanicless(f func()) {
	for RunPanicless(f) {
	}
}

// ClampFloat32 limits v into [min, max]
func ClampFloat32(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
