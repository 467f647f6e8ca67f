// Package device drives the vision switcher on behalf of the sequencer.
//
// Commands are queued to a single worker so they reach the switcher in the
// order they were issued. Callers never wait for delivery; failures are
// logged and counted, never returned to the sequencer.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/telemetry"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

var (
	// ErrInvalidChannel is returned for an overlay channel outside 1..4.
	ErrInvalidChannel = errors.New("overlay channel out of range")
	// ErrClosed is returned once the adapter has been closed.
	ErrClosed = errors.New("device adapter closed")
	// ErrQueueFull is returned when a command cannot be queued.
	ErrQueueFull = errors.New("device command queue full")
)

const (
	// DefaultTakeDelay is the preview-to-cut gap the switcher needs in practice.
	DefaultTakeDelay = 50 * time.Millisecond
	// DefaultStopFade is the fade-to-black duration on stop.
	DefaultStopFade = 500 * time.Millisecond
	// DefaultQueueSize bounds queued commands.
	DefaultQueueSize = 64
)

// Config holds adapter configuration.
type Config struct {
	Target    config.DeviceTarget
	TakeDelay time.Duration
	StopFade  time.Duration
	QueueSize int
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig(target config.DeviceTarget) Config {
	return Config{
		Target:    target,
		TakeDelay: DefaultTakeDelay,
		StopFade:  DefaultStopFade,
		QueueSize: DefaultQueueSize,
	}
}

type job struct {
	target config.DeviceTarget
	steps  []Step
	reply  chan error // nil for fire-and-forget
}

// Adapter turns playout actions into ordered switcher calls.
type Adapter struct {
	transport Transport
	metrics   *telemetry.Metrics
	logger    zerolog.Logger

	takeDelay time.Duration
	stopFade  time.Duration

	mu     sync.RWMutex
	target config.DeviceTarget
	closed bool

	jobs chan job
	done chan struct{}
}

// New creates an adapter and starts its dispatch worker. metrics may be nil.
func New(cfg Config, transport Transport, metrics *telemetry.Metrics, logger zerolog.Logger) *Adapter {
	if cfg.TakeDelay < MinTakeDelay {
		cfg.TakeDelay = MinTakeDelay
	}
	if cfg.StopFade <= 0 {
		cfg.StopFade = DefaultStopFade
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	a := &Adapter{
		transport: transport,
		metrics:   metrics,
		logger:    logger.With().Str("component", "device").Logger(),
		takeDelay: cfg.TakeDelay,
		stopFade:  cfg.StopFade,
		target:    cfg.Target,
		jobs:      make(chan job, cfg.QueueSize),
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

// Target returns the switcher commands are currently sent to.
func (a *Adapter) Target() config.DeviceTarget {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.target
}

// SetTarget redirects subsequent commands. Queued commands keep their target.
func (a *Adapter) SetTarget(target config.DeviceTarget) {
	a.mu.Lock()
	a.target = target
	a.mu.Unlock()
	a.logger.Info().Str("name", target.Name).Str("address", target.Address()).Msg("Switcher target set")
}

// Take previews input and cuts to it after the take delay.
func (a *Adapter) Take(input string) {
	_ = a.enqueue(NewTakeSequence(input, a.takeDelay).Steps(), nil)
}

// Stop fades program output to black.
func (a *Adapter) Stop() {
	_ = a.enqueue([]Step{{Command: vmix.FadeToBlack(a.stopFade)}}, nil)
}

// OverlayOn shows input on an overlay channel. Out-of-range channels send nothing.
func (a *Adapter) OverlayOn(input string, channel int) error {
	if !vmix.ValidOverlayChannel(channel) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	_ = a.enqueue([]Step{{Command: vmix.Command{Function: vmix.OverlayOnFunction(channel), Input: input}}}, nil)
	return nil
}

// OverlayOff clears an overlay channel. Out-of-range channels send nothing.
func (a *Adapter) OverlayOff(channel int) error {
	if !vmix.ValidOverlayChannel(channel) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	_ = a.enqueue([]Step{{Command: vmix.Command{Function: vmix.OverlayOffFunction(channel)}}}, nil)
	return nil
}

// SetActiveInput switches program output straight to input, without preview.
// It returns once the command is queued.
func (a *Adapter) SetActiveInput(input string) error {
	return a.enqueue([]Step{{Command: vmix.ActiveInput(input)}}, nil)
}

// SetPreviewInput loads input into preview. It returns once the command is queued.
func (a *Adapter) SetPreviewInput(input string) error {
	return a.enqueue([]Step{{Command: vmix.PreviewInput(input)}}, nil)
}

// Execute sends cmd in order with queued commands and waits for the result.
// Overlay functions addressing a channel outside 1..4 return ErrInvalidChannel
// without reaching the switcher.
func (a *Adapter) Execute(ctx context.Context, cmd vmix.Command) error {
	return a.execOn(ctx, nil, cmd)
}

// ExecuteOn is Execute against an explicit target instead of the current one.
func (a *Adapter) ExecuteOn(ctx context.Context, target config.DeviceTarget, cmd vmix.Command) error {
	return a.execOn(ctx, &target, cmd)
}

func (a *Adapter) execOn(ctx context.Context, target *config.DeviceTarget, cmd vmix.Command) error {
	if ch, ok := vmix.OverlayChannel(cmd.Function); ok && !vmix.ValidOverlayChannel(ch) {
		return fmt.Errorf("%w: %s", ErrInvalidChannel, cmd.Function)
	}
	reply := make(chan error, 1)
	if err := a.enqueueTo(target, []Step{{Command: cmd}}, reply); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting commands and waits for queued ones to be sent.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.jobs)
	a.mu.Unlock()
	<-a.done
}

func (a *Adapter) enqueue(steps []Step, reply chan error) error {
	return a.enqueueTo(nil, steps, reply)
}

// enqueueTo queues steps for target, or for the current target when nil.
func (a *Adapter) enqueueTo(target *config.DeviceTarget, steps []Step, reply chan error) error {
	// The read lock keeps Close from closing jobs mid-send.
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	j := job{target: a.target, steps: steps, reply: reply}
	if target != nil {
		j.target = *target
	}
	select {
	case a.jobs <- j:
		return nil
	default:
		if a.metrics != nil {
			a.metrics.DeviceDropped.Inc()
		}
		a.logger.Warn().Str("function", steps[0].Command.Function).Msg("Device queue full, command dropped")
		return ErrQueueFull
	}
}

func (a *Adapter) run() {
	defer close(a.done)
	for j := range a.jobs {
		err := a.execute(j)
		if j.reply != nil {
			j.reply <- err
		}
	}
}

// execute sends the steps in order. A failed step aborts the rest, so a cut
// never follows a preview that did not arrive.
func (a *Adapter) execute(j job) error {
	for i, s := range j.steps {
		if s.After > 0 {
			time.Sleep(s.After)
		}
		if err := a.send(j.target, s.Command); err != nil {
			if i < len(j.steps)-1 {
				a.logger.Warn().Int("skipped", len(j.steps)-1-i).Msg("Aborting command sequence")
			}
			return err
		}
	}
	return nil
}

func (a *Adapter) send(target config.DeviceTarget, cmd vmix.Command) error {
	err := a.transport.Send(context.Background(), target, cmd)

	result := "ok"
	if err != nil {
		result = "error"
		a.logger.Warn().
			Err(err).
			Str("function", cmd.Function).
			Str("input", cmd.Input).
			Str("target", target.Address()).
			Msg("Switcher command failed")
	} else {
		a.logger.Debug().Str("command", cmd.String()).Str("target", target.Address()).Msg("Switcher command sent")
	}
	if a.metrics != nil {
		a.metrics.DeviceCommands.WithLabelValues(cmd.Function, result).Inc()
	}
	return err
}
