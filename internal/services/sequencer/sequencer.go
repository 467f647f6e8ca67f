// Package sequencer owns the on-air cursor over a playout queue.
//
// The sequencer is IDLE or PLAYING. PlayNext promotes the next eligible item
// and takes it on the switcher; a ticker advances elapsed seconds for the
// on-air item but never advances the cursor. Switcher delivery is best-effort
// and never affects the in-memory state.
package sequencer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/services/translate"
	"github.com/bbernstein/onair-go/internal/telemetry"
	"github.com/bbernstein/onair-go/internal/timecode"
)

// DefaultTickInterval is the elapsed-time cadence.
const DefaultTickInterval = time.Second

// Device is the switcher the sequencer drives. Implementations must not block.
type Device interface {
	Take(input string)
	Stop()
	OverlayOn(input string, channel int) error
	OverlayOff(channel int) error
	SetTarget(target config.DeviceTarget)
}

// LogSink records as-run entries.
type LogSink interface {
	Create(ctx context.Context, entry *models.PlayoutLog) error
}

// Option configures a Service.
type Option func(*Service)

// WithTicker replaces the real ticker, mainly for tests.
func WithTicker(f TickerFactory) Option {
	return func(s *Service) { s.newTicker = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTickInterval sets the elapsed-time cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogSink records PLAY_START, PLAY_END and ERROR entries.
func WithLogSink(sink LogSink) Option {
	return func(s *Service) { s.logs = sink }
}

// WithPubSub publishes every status change on TopicPlayoutStatus.
func WithPubSub(ps *pubsub.PubSub) Option {
	return func(s *Service) { s.pubsub = ps }
}

// WithMetrics updates the playout gauges.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l.With().Str("component", "sequencer").Logger() }
}

// WithTarget sets the initial switcher target.
func WithTarget(t config.DeviceTarget) Option {
	return func(s *Service) { s.target = t }
}

// Service manages the playout queue and its on-air cursor.
type Service struct {
	mu sync.Mutex

	device  Device
	logs    LogSink
	pubsub  *pubsub.PubSub
	metrics *telemetry.Metrics
	logger  zerolog.Logger

	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time

	name     string
	queue    []models.PlayoutItem
	current  int // on-air index, -1 when idle
	next     int // next eligible index, -1 when none
	position int // index of the last item taken, survives Stop
	elapsed  int
	started  time.Time
	target   config.DeviceTarget
	updated  time.Time

	// generation changes whenever the cursor does; a tick for an older
	// generation is discarded.
	generation uint64
	stopTick   chan struct{}

	// overlays maps graphics event IDs currently shown to their channel.
	overlays map[string]int
}

// New creates a sequencer in the IDLE state with an empty queue.
func New(device Device, opts ...Option) *Service {
	s := &Service{
		device:    device,
		logger:    zerolog.Nop(),
		interval:  DefaultTickInterval,
		newTicker: NewRealTicker,
		now:       time.Now,
		current:   -1,
		next:      -1,
		position:  -1,
		overlays:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updated = s.now()
	return s
}

// Load replaces the whole queue and resets the cursor to IDLE. Next becomes
// the first eligible item.
func (s *Service) Load(name string, items []models.PlayoutItem) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	queue := make([]models.PlayoutItem, len(items))
	copy(queue, items)

	s.mu.Lock()
	ended := s.endCurrentLocked()
	s.name = name
	s.queue = queue
	s.position = -1
	s.next = s.nextEligibleLocked(0)
	skipped := s.skippedErrorsLocked(0, s.next)
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

	if ended != nil {
		s.record(models.EventPlayEnd, ended, "queue replaced")
	}
	s.recordSkipped(skipped)
	s.logger.Info().Str("name", name).Int("items", len(queue)).Msg("Playlist loaded")
	return nil
}

// LoadPlaylist loads a saved playlist.
func (s *Service) LoadPlaylist(p *models.Playlist) error {
	return s.Load(p.Name, p.Items)
}

// LoadFromTranslation points the switcher at the translated target and loads its queue.
func (s *Service) LoadFromTranslation(res *translate.Result) error {
	if !res.Target.IsZero() {
		s.SetTarget(res.Target)
	}
	return s.Load(res.Name, res.Items)
}

// PlayNext takes the next eligible item on air. It reports false, and does
// nothing, when there is no eligible item. GROUP_HEADER and ERROR items are
// skipped and never taken.
func (s *Service) PlayNext() bool {
	s.mu.Lock()
	if s.next < 0 {
		s.mu.Unlock()
		return false
	}

	ended := s.endCurrentLocked()

	s.current = s.next
	s.position = s.current
	s.elapsed = 0
	s.started = s.now()
	s.next = s.nextEligibleLocked(s.current + 1)
	skipped := s.skippedErrorsLocked(s.current+1, s.next)
	item := s.queue[s.current]

	s.device.Take(item.Name)
	s.applyOverlaysLocked()
	s.startTickLocked()
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

	if ended != nil {
		s.record(models.EventPlayEnd, ended, "")
	}
	s.record(models.EventPlayStart, &item, "")
	s.recordSkipped(skipped)
	if s.metrics != nil {
		s.metrics.PlayoutTakes.Inc()
	}
	s.logger.Info().Str("item", item.ID).Str("name", item.Name).Str("duration", item.Duration).Msg("Item on air")
	return true
}

// Tick advances elapsed seconds for the on-air item by one, clamped to its
// duration. It never moves the cursor.
func (s *Service) Tick() {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.tickGeneration(gen)
}

func (s *Service) tickGeneration(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.current < 0 {
		s.mu.Unlock()
		return
	}

	limit := s.queue[s.current].Seconds()
	if s.elapsed < limit {
		s.elapsed++
	}
	s.applyOverlaysLocked()
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

}

// Stop fades the switcher to black and returns to IDLE. Next and the rest of
// the queue are left as they were.
func (s *Service) Stop() {
	s.mu.Lock()
	ended := s.endCurrentLocked()
	s.device.Stop()
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

	if ended != nil {
		s.record(models.EventPlayEnd, ended, "stopped")
	}
	s.logger.Info().Msg("Playout stopped")
}

// AddItem appends item to the queue without moving the cursor. When nothing
// is queued as next, an eligible item after the last take becomes next.
func (s *Service) AddItem(item models.PlayoutItem) (*models.PlayoutItem, error) {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	if item.Status == "" {
		item.Status = models.SourceOK
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.queue = append(s.queue, item)
	if s.next < 0 {
		s.next = s.nextEligibleLocked(s.position + 1)
	}
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

	return &item, nil
}

// SetTarget changes the switcher the sequencer drives.
func (s *Service) SetTarget(target config.DeviceTarget) {
	s.mu.Lock()
	s.target = target
	s.device.SetTarget(target)
	s.touchLocked()
	s.publishLocked()
	s.mu.Unlock()

}

// Status returns a copy of the current state.
func (s *Service) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Close stops the ticker without touching the switcher.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTickLocked()
}

// endCurrentLocked cancels the ticker, clears overlays and returns the item
// that was on air, if any.
func (s *Service) endCurrentLocked() *models.PlayoutItem {
	s.cancelTickLocked()
	s.clearOverlaysLocked()
	if s.current < 0 {
		return nil
	}
	item := s.queue[s.current]
	s.current = -1
	s.elapsed = 0
	s.started = time.Time{}
	return &item
}

func (s *Service) nextEligibleLocked(from int) int {
	for i := from; i < len(s.queue); i++ {
		if s.queue[i].Playable() {
			return i
		}
	}
	return -1
}

// skippedErrorsLocked returns the ERROR items in [from, to). A negative to
// means the end of the queue.
func (s *Service) skippedErrorsLocked(from, to int) []models.PlayoutItem {
	if to < 0 {
		to = len(s.queue)
	}
	var skipped []models.PlayoutItem
	for i := from; i < to; i++ {
		if s.queue[i].Status == models.SourceError {
			skipped = append(skipped, s.queue[i])
		}
	}
	return skipped
}

// startTickLocked bumps the generation and starts a ticker bound to it.
func (s *Service) startTickLocked() {
	s.generation++
	gen := s.generation
	stop := make(chan struct{})
	s.stopTick = stop
	ticker := s.newTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				s.tickGeneration(gen)
			case <-stop:
				return
			}
		}
	}()
}

func (s *Service) cancelTickLocked() {
	s.generation++
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

// applyOverlaysLocked switches graphics events of the on-air item on when
// elapsed enters their window and off when it leaves. A zero duration keeps
// the overlay on until the item ends.
func (s *Service) applyOverlaysLocked() {
	if s.current < 0 {
		return
	}
	for _, ev := range s.queue[s.current].GraphicsEvents {
		_, shown := s.overlays[ev.ID]
		inWindow := s.elapsed >= ev.StartTime && (ev.Duration <= 0 || s.elapsed < ev.StartTime+ev.Duration)

		switch {
		case inWindow && !shown:
			if err := s.device.OverlayOn(ev.Input, ev.OverlayChannel); err != nil {
				s.logger.Warn().Err(err).Str("event", ev.ID).Msg("Overlay skipped")
				continue
			}
			s.overlays[ev.ID] = ev.OverlayChannel
		case !inWindow && shown:
			_ = s.device.OverlayOff(ev.OverlayChannel)
			delete(s.overlays, ev.ID)
		}
	}
}

func (s *Service) clearOverlaysLocked() {
	for id, ch := range s.overlays {
		_ = s.device.OverlayOff(ch)
		delete(s.overlays, id)
	}
}

func (s *Service) touchLocked() {
	s.updated = s.now()
	if s.metrics != nil {
		if s.current >= 0 {
			s.metrics.PlayoutOnAir.Set(1)
		} else {
			s.metrics.PlayoutOnAir.Set(0)
		}
		s.metrics.PlayoutElapsed.Set(float64(s.elapsed))
	}
}

func (s *Service) statusLocked() *Status {
	st := &Status{
		State:          StateIdle,
		Name:           s.name,
		Elapsed:        s.elapsed,
		Queue:          make([]models.PlayoutItem, len(s.queue)),
		Target:         s.target,
		ActiveOverlays: make([]int, 0, len(s.overlays)),
		LastUpdated:    s.updated,
	}
	copy(st.Queue, s.queue)

	total := 0
	for i := range s.queue {
		total += s.queue[i].Seconds()
	}
	st.TotalDuration = timecode.FormatDuration(total)

	if s.current >= 0 {
		item := s.queue[s.current]
		started := s.started
		st.State = StatePlaying
		st.NowPlaying = &item
		st.StartedAt = &started
		st.Remaining = item.Seconds() - s.elapsed
	}
	if s.next >= 0 {
		item := s.queue[s.next]
		st.Next = &item
	}
	for _, ch := range s.overlays {
		st.ActiveOverlays = append(st.ActiveOverlays, ch)
	}
	sort.Ints(st.ActiveOverlays)
	formatStatusDurations(st)
	return st
}

// publishLocked publishes the current status. It runs under s.mu so
// subscribers see states in the order they happened.
func (s *Service) publishLocked() {
	if s.pubsub != nil {
		s.pubsub.Publish(pubsub.TopicPlayoutStatus, "", s.statusLocked())
	}
}

func (s *Service) recordSkipped(items []models.PlayoutItem) {
	for i := range items {
		s.logger.Warn().Str("item", items[i].ID).Str("name", items[i].Name).Msg("Skipping item in error")
		s.record(models.EventError, &items[i], "skipped: source unavailable")
	}
}

func (s *Service) record(event models.PlayoutEventType, item *models.PlayoutItem, details string) {
	if s.logs == nil {
		return
	}
	duration := item.Duration
	entry := &models.PlayoutLog{
		Timestamp: s.now(),
		AssetName: item.Name,
		EventType: event,
		Duration:  &duration,
		Details:   details,
	}
	if err := s.logs.Create(context.Background(), entry); err != nil {
		s.logger.Warn().Err(err).Str("event", string(event)).Msg("Failed to write as-run log")
	}
}
