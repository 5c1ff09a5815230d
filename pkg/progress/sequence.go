package progress

import (
	"context"
	"time"
)

// Labels 加载阶段文案
var Labels = []string{
	"Initializing Zluri App Catalog...",
	"Loading available applications...",
	"Preparing your dashboard...",
	"Setting up recommendations...",
	"Almost ready!",
}

// Frame is one observable state of the loading screen.
type Frame struct {
	Progress int    `json:"progress"`
	Step     int    `json:"step"`
	Label    string `json:"label"`
	Complete bool   `json:"complete"`
}

// Sequence 加载进度序列
type Sequence struct {
	Interval  time.Duration
	Increment int
	Settle    time.Duration
}

// Default returns the 50ms / +2% / 500ms settle sequence.
func Default() Sequence {
	return Sequence{
		Interval:  50 * time.Millisecond,
		Increment: 2,
		Settle:    500 * time.Millisecond,
	}
}

// StepIndex maps a percentage onto a label index, capped at the last label.
func StepIndex(progress int) int {
	idx := progress * len(Labels) / 100
	if idx >= len(Labels) {
		idx = len(Labels) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func frameAt(progress int) Frame {
	step := StepIndex(progress)
	return Frame{Progress: progress, Step: step, Label: Labels[step]}
}

// Run emits the initial frame, one frame per tick until 100, then a completion
// frame after the settle delay. Cancelling ctx stops the ticker and nothing
// further is emitted. An emit error also stops the run and is returned.
func (s Sequence) Run(ctx context.Context, emit func(Frame) error) error {
	if s.Increment <= 0 {
		s.Increment = 2
	}
	if s.Interval <= 0 {
		s.Interval = 50 * time.Millisecond
	}

	if err := emit(frameAt(0)); err != nil {
		return err
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	progress := 0
	for progress < 100 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		progress += s.Increment
		if progress > 100 {
			progress = 100
		}
		if err := emit(frameAt(progress)); err != nil {
			return err
		}
	}
	ticker.Stop()

	if s.Settle > 0 {
		timer := time.NewTimer(s.Settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	done := frameAt(100)
	done.Complete = true
	return emit(done)
}
