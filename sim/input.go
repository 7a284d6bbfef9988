package sim

// Input is one tick's worth of player intent, already reduced to edges by
// the shell. The sim never polls devices.
type Input struct {
	// Jump is true on the tick the jump control was pressed.
	Jump bool
	// JumpReleased is true on the tick the jump control came back up.
	// Releasing never cuts a charge short; the sim only keeps its held
	// bookkeeping straight.
	JumpReleased bool
	// TargetX is the desired horizontal position in screen space. Only
	// read when HasTarget is set; otherwise the previous target holds.
	TargetX   float64
	HasTarget bool
}
