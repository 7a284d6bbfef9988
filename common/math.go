package common

import "math"

// EaseInCubic starts slow and accelerates. t is expected in [0, 1].
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic starts fast and decelerates. t is expected in [0, 1].
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// SmoothStep is the classic 3t²-2t³ ease-in-out, clamped to [0, 1].
func SmoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// ExpApproach moves current toward target with a framerate-independent
// exponential step. rate is in units of 1/seconds.
func ExpApproach(current, target, rate, dt float64) float64 {
	return target + (current-target)*math.Exp(-rate*dt)
}

// SafeDiv divides a by b with b floored away from zero, so a divisor that
// collapses to (near) zero yields a large-but-finite result instead of Inf.
func SafeDiv(a, b, floor float64) float64 {
	if floor < 0 {
		floor = -floor
	}
	if b >= 0 && b < floor {
		b = floor
	} else if b < 0 && b > -floor {
		b = -floor
	}
	return a / b
}
