package device

import (
	"time"

	"github.com/bbernstein/onair-go/pkg/vmix"
)

// MinTakeDelay is the shortest gap allowed between setting preview and cutting.
// The switcher applies the two independently, so a faster cut can race the preview.
const MinTakeDelay = 20 * time.Millisecond

// Step is one command, sent After the previous step completed.
type Step struct {
	Command vmix.Command
	After   time.Duration
}

// TakeSequence switches program output to Input through preview.
type TakeSequence struct {
	Input string
	Delay time.Duration
}

// NewTakeSequence builds a take, raising delay to MinTakeDelay when shorter.
func NewTakeSequence(input string, delay time.Duration) TakeSequence {
	if delay < MinTakeDelay {
		delay = MinTakeDelay
	}
	return TakeSequence{Input: input, Delay: delay}
}

// Steps returns preview then cut.
func (t TakeSequence) Steps() []Step {
	delay := t.Delay
	if delay < MinTakeDelay {
		delay = MinTakeDelay
	}
	return []Step{
		{Command: vmix.PreviewInput(t.Input)},
		{Command: vmix.Cut(), After: delay},
	}
}
