package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

type schedulerState int

const (
	schedulerIdle schedulerState = iota
	schedulerScheduled
	schedulerInFlight
)

func (s schedulerState) String() string {
	switch s {
	case schedulerScheduled:
		return "scheduled"
	case schedulerInFlight:
		return "in_flight"
	default:
		return "idle"
	}
}

// refreshScheduler decides for every refresh request of one entity kind
// whether to run a full synchronization now, after the debounce window, or
// not at all. At most one synchronization runs at a time.
//
//	Idle --force--> InFlight --done--> Idle
//	Idle --request--> Scheduled --timer--> InFlight --done--> Idle
//
// A request while Scheduled resets the timer. A forced synchronization that
// completes cancels any timer armed before it started.
type refreshScheduler struct {
	kind     models.EntityKind
	throttle time.Duration
	debounce time.Duration

	// syncFn runs one full synchronization.
	syncFn func(ctx context.Context) error
	// onInFlight mirrors the in-flight flag into the sync state. It is
	// called with mu held.
	onInFlight func(inFlight bool)

	// baseCtx is used by debounced synchronizations; it is cancelled when
	// the session ends.
	baseCtx context.Context
	now     func() time.Time
	logger  *logger.Logger

	mu        sync.Mutex
	inFlight  bool
	timer     *time.Timer
	timerGen  uint64
	lastStart time.Time
	started   bool
	closed    bool
	wg        sync.WaitGroup
}

func newRefreshScheduler(
	baseCtx context.Context,
	kind models.EntityKind,
	throttle, debounce time.Duration,
	syncFn func(ctx context.Context) error,
	onInFlight func(bool),
	log *logger.Logger,
) *refreshScheduler {
	if onInFlight == nil {
		onInFlight = func(bool) {}
	}
	return &refreshScheduler{
		kind:       kind,
		throttle:   throttle,
		debounce:   debounce,
		syncFn:     syncFn,
		onInFlight: onInFlight,
		baseCtx:    baseCtx,
		now:        time.Now,
		logger:     log,
	}
}

// RequestRefresh handles one refresh request. A forced request runs the
// synchronization on the calling goroutine and returns its error.
func (s *refreshScheduler) RequestRefresh(ctx context.Context, force bool) (RefreshDecision, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return DecisionDroppedClosed, nil
	}
	if s.inFlight {
		s.mu.Unlock()
		s.logDecision(force, DecisionDroppedInFlight)
		return DecisionDroppedInFlight, nil
	}

	if force {
		s.beginLocked()
		s.mu.Unlock()
		s.logDecision(force, DecisionExecuted)

		err := s.execute(ctx, true)
		return DecisionExecuted, err
	}

	if s.throttledLocked() {
		s.mu.Unlock()
		s.logDecision(force, DecisionDroppedThrottled)
		return DecisionDroppedThrottled, nil
	}

	s.armLocked()
	s.mu.Unlock()
	s.logDecision(force, DecisionScheduled)

	return DecisionScheduled, nil
}

// State returns the current position in the state machine.
func (s *refreshScheduler) State() schedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.inFlight:
		return schedulerInFlight
	case s.timer != nil:
		return schedulerScheduled
	default:
		return schedulerIdle
	}
}

// LastStart returns the start time of the most recent synchronization.
func (s *refreshScheduler) LastStart() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastStart, s.started
}

// Close stops the debounce timer, rejects further requests and waits for a
// running synchronization to return.
func (s *refreshScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelTimerLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *refreshScheduler) armLocked() {
	s.cancelTimerLocked()
	gen := s.timerGen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
}

func (s *refreshScheduler) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// a callback that already started sees a stale generation and returns
	s.timerGen++
}

func (s *refreshScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	if s.closed || s.inFlight || s.throttledLocked() {
		s.mu.Unlock()
		s.logger.Debug().
			Str("entity_kind", s.kind.String()).
			Msg("debounced refresh dropped on re-evaluation")
		return
	}

	s.beginLocked()
	s.mu.Unlock()

	_ = s.execute(s.baseCtx, false)
}

// beginLocked enters InFlight. The wait group is incremented under mu so
// that Close, which sets closed under the same lock, never misses a run.
func (s *refreshScheduler) beginLocked() {
	s.inFlight = true
	s.lastStart = s.now()
	s.started = true
	s.wg.Add(1)
	s.onInFlight(true)
}

func (s *refreshScheduler) execute(ctx context.Context, forced bool) error {
	defer s.wg.Done()

	started := s.now()
	err := s.syncFn(ctx)

	s.mu.Lock()
	s.inFlight = false
	if forced && s.timer != nil {
		// superseded by the forced result
		s.cancelTimerLocked()
	}
	s.onInFlight(false)
	s.mu.Unlock()

	log := s.logger.Debug()
	if err != nil {
		log = s.logger.Warn().Err(err)
	}
	log.Str("entity_kind", s.kind.String()).
		Bool("forced", forced).
		Dur("took", s.now().Sub(started)).
		Msg("synchronization finished")

	return err
}

func (s *refreshScheduler) throttledLocked() bool {
	return s.started && s.now().Sub(s.lastStart) < s.throttle
}

func (s *refreshScheduler) logDecision(force bool, d RefreshDecision) {
	s.logger.Debug().
		Str("entity_kind", s.kind.String()).
		Bool("forced", force).
		Stringer("decision", d).
		Msg("refresh requested")
}
