package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/logger"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

const (
	DefaultInterval     = time.Hour
	DefaultErrorBackoff = time.Minute
	DefaultStopTimeout  = 2 * time.Second
)

// ErrNoProvider is returned by UpdateNow when the scheduler has no odds provider
var ErrNoProvider = errors.New("no odds provider configured")

// Config tunes the refresh loop
type Config struct {
	Interval     time.Duration
	ErrorBackoff time.Duration
	StopTimeout  time.Duration
}

// DefaultConfig returns an hourly loop with a one minute error backoff
func DefaultConfig() Config {
	return Config{
		Interval:     DefaultInterval,
		ErrorBackoff: DefaultErrorBackoff,
		StopTimeout:  DefaultStopTimeout,
	}
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithConfig overrides the loop timings. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		if cfg.Interval > 0 {
			s.cfg.Interval = cfg.Interval
		}
		if cfg.ErrorBackoff > 0 {
			s.cfg.ErrorBackoff = cfg.ErrorBackoff
		}
		if cfg.StopTimeout > 0 {
			s.cfg.StopTimeout = cfg.StopTimeout
		}
	}
}

// WithRateLimiter sets the per-sport limiter
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(s *Scheduler) {
		s.limiter = limiter
	}
}

// WithRegistry shares an observer registry
func WithRegistry(registry *Registry) Option {
	return func(s *Scheduler) {
		s.observers = registry
	}
}

// WithLogger sets the base logger
func WithLogger(log *logrus.Logger) Option {
	return func(s *Scheduler) {
		s.log = logger.NewRefreshLogger(log)
		s.audit = logger.NewAuditLogger(log)
	}
}

// WithClock replaces time.Now for the scheduler and its limiter
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler owns the background refresh loop.
// Start, Stop and UpdateNow may be called from any goroutine.
type Scheduler struct {
	store     Store
	provider  OddsProvider
	limiter   *RateLimiter
	observers *Registry
	log       *logger.RefreshLogger
	audit     *logger.AuditLogger
	cfg       Config
	now       func() time.Time

	// lifecycle serializes Start and Stop; mu guards the fields below it
	lifecycle sync.Mutex
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	interval  time.Duration

	// serializes ticks from the loop and UpdateNow
	tickMu sync.Mutex

	stateMu    sync.RWMutex
	lastTickID string
	lastTickAt *time.Time
	tickCount  int64
}

// NewScheduler creates a stopped scheduler
func NewScheduler(store Store, provider OddsProvider, opts ...Option) *Scheduler {
	nop := logger.NewNopLogger()
	s := &Scheduler{
		store:     store,
		provider:  provider,
		observers: NewRegistry(),
		log:       logger.NewRefreshLogger(nop),
		audit:     logger.NewAuditLogger(nop),
		cfg:       DefaultConfig(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(nil, DefaultMinInterval)
	}
	s.limiter.setClock(s.now)
	return s
}

// Observers returns the registry notified after each tick
func (s *Scheduler) Observers() *Registry {
	return s.observers
}

// Limiter returns the per-sport rate limiter
func (s *Scheduler) Limiter() *RateLimiter {
	return s.limiter
}

// Start launches the loop, stopping any loop already running.
// A non-positive interval uses the configured default.
func (s *Scheduler) Start(interval time.Duration) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stop()

	if interval <= 0 {
		interval = s.cfg.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.interval = interval

	events := make(chan TickEvent, 8)
	go func() {
		defer close(done)
		s.dispatch(ctx, events)
	}()
	go s.run(ctx, interval, events)

	metrics.UpdateSchedulerRunning(true)
	s.log.LogSchedulerStarted(interval)
}

// Stop cancels the loop and waits up to the stop timeout for it to exit
// and for queued ticks to reach observers. It reports whether both finished in time. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() bool {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.stop()
}

func (s *Scheduler) stop() bool {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return true
	}
	cancel()
	metrics.UpdateSchedulerRunning(false)

	select {
	case <-done:
		s.log.LogSchedulerStopped(true)
		return true
	case <-time.After(s.cfg.StopTimeout):
		s.log.LogSchedulerStopped(false)
		return false
	}
}

// IsRunning reports whether the background loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// UpdateNow runs one refresh in the caller's goroutine and notifies observers before returning.
// Store failures end the tick early but observers are still notified.
func (s *Scheduler) UpdateNow(ctx context.Context) (TickEvent, error) {
	if s.provider == nil {
		return TickEvent{}, ErrNoProvider
	}
	event, err := s.safeTick(ctx)
	if err != nil {
		return event, err
	}
	s.notify(ctx, event)
	return event, nil
}

// State returns a snapshot of the refresh state
func (s *Scheduler) State() models.RefreshState {
	s.mu.Lock()
	running := s.cancel != nil
	interval := s.interval
	s.mu.Unlock()

	if interval == 0 {
		interval = s.cfg.Interval
	}

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	state := models.RefreshState{
		Running:     running,
		Interval:    interval,
		LastRefresh: s.limiter.Snapshot(),
		LastTickID:  s.lastTickID,
		TickCount:   s.tickCount,
	}
	if s.lastTickAt != nil {
		at := *s.lastTickAt
		state.LastTickAt = &at
	}
	return state
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, events chan<- TickEvent) {
	defer close(events)

	for {
		if ctx.Err() != nil {
			return
		}

		wait := interval
		event, err := s.safeTick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait = s.cfg.ErrorBackoff
			s.log.LogTickFailed(err, wait)
		} else {
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// dispatch delivers completed ticks to observers so a slow observer never delays the loop's timer
func (s *Scheduler) dispatch(ctx context.Context, events <-chan TickEvent) {
	for event := range events {
		s.notify(ctx, event)
	}
}

func (s *Scheduler) notify(ctx context.Context, event TickEvent) {
	for _, failure := range s.observers.Notify(ctx, event) {
		metrics.RecordObserverFailure(failure.Key)
		s.log.LogObserverFailure(event.ID, failure.Key, failure.Err)
	}
}

func (s *Scheduler) safeTick(ctx context.Context) (event TickEvent, err error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	started := s.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh tick panicked: %v", r)
		}
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		metrics.RecordRefreshTick(outcome, s.now().Sub(started).Seconds())
	}()

	return s.tick(ctx, started)
}

func (s *Scheduler) tick(ctx context.Context, started time.Time) (TickEvent, error) {
	event := TickEvent{ID: uuid.New().String(), StartedAt: started}

	bets, err := s.store.GetActiveBets(ctx)
	if err != nil {
		s.log.LogStoreFailure(event.ID, "get_active_bets", err)
		return s.finishTick(event, started), nil
	}
	event.ActiveBets = len(bets)
	metrics.UpdateActiveBets(len(bets))

	if len(bets) > 0 {
		groups, order := groupBySport(bets)

		sports, err := s.store.GetSportsByName(ctx)
		if err != nil {
			s.log.LogStoreFailure(event.ID, "get_sports_by_name", err)
			event.SportsSkipped = append(event.SportsSkipped, order...)
			return s.finishTick(event, started), nil
		}
		s.log.LogTickStarted(event.ID, len(bets), len(order))

		for _, name := range order {
			if ctx.Err() != nil {
				return event, ctx.Err()
			}
			refreshed, updated := s.refreshSport(ctx, event.ID, name, sports, groups[name])
			if refreshed {
				event.SportsRefreshed = append(event.SportsRefreshed, name)
			} else {
				event.SportsSkipped = append(event.SportsSkipped, name)
			}
			event.BetsUpdated += updated
		}

		event.ParlaysUpdated = s.recomputeParlays(ctx, bets)
	}

	return s.finishTick(event, started), nil
}

func (s *Scheduler) finishTick(event TickEvent, started time.Time) TickEvent {
	event.FinishedAt = s.now()
	s.recordTick(event)
	s.log.LogTickCompleted(event.ID, event.FinishedAt.Sub(started), len(event.SportsRefreshed), event.BetsUpdated, event.ParlaysUpdated)
	return event
}

// refreshSport reprices the bets of one sport. bets points into the tick's
// bet slice so later parlay math sees the new prices.
func (s *Scheduler) refreshSport(ctx context.Context, tickID, name string, sports map[string]models.Sport, bets []*models.BetRecord) (bool, int) {
	sport, ok := sports[name]
	if !ok || sport.APIKey == "" {
		s.log.LogSportSkipped(tickID, name, "unknown sport")
		metrics.RecordSportRefresh(name, "skipped")
		return false, 0
	}
	if !s.limiter.Due(sport.APIKey) {
		s.log.LogSportSkipped(tickID, sport.APIKey, "refreshed recently")
		metrics.RecordSportRefresh(sport.APIKey, "skipped")
		return false, 0
	}

	events, err := s.provider.FetchOdds(ctx, sport.APIKey)
	if err != nil {
		s.log.LogSportFailed(tickID, sport.APIKey, err)
		metrics.RecordSportRefresh(sport.APIKey, "failed")
		return false, 0
	}
	if len(events) == 0 {
		s.log.LogSportSkipped(tickID, sport.APIKey, "no events")
		metrics.RecordSportRefresh(sport.APIKey, "empty")
		return false, 0
	}

	updated := 0
	for _, bet := range bets {
		price, found := findTeamOdds(events, bet)
		if !found || price == bet.Odds {
			continue
		}
		if err := s.store.UpdateBetOdds(ctx, bet.ID, price); err != nil {
			s.log.WithError(err).WithField("bet_id", bet.ID).Warn("Failed to save bet odds")
			continue
		}
		s.audit.LogBetOddsChange(bet.ID, bet.TeamName, bet.Odds, price)
		metrics.RecordBetOddsUpdate()
		bet.Odds = price
		updated++
	}

	s.limiter.Mark(sport.APIKey)
	s.log.LogSportRefreshed(tickID, sport.APIKey, len(events), updated)
	metrics.RecordSportRefresh(sport.APIKey, "refreshed")
	return true, updated
}

// recomputeParlays refreshes totals of active parlays from their legs' current odds
func (s *Scheduler) recomputeParlays(ctx context.Context, bets []models.BetRecord) int {
	parlays, err := s.store.GetActiveParlays(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to load active parlays")
		return 0
	}

	byID := make(map[int64]string, len(bets))
	for _, bet := range bets {
		byID[bet.ID] = bet.Odds
	}

	updated := 0
	for _, parlay := range parlays {
		totalOdds, payout, err := s.parlayTotals(ctx, parlay, byID)
		if err != nil {
			s.log.WithError(err).WithField("parlay_id", parlay.ID).Warn("Skipping parlay recompute")
			continue
		}
		if totalOdds == parlay.TotalOdds && payout == parlay.PotentialPayout {
			continue
		}
		if err := s.store.UpdateParlayTotals(ctx, parlay.ID, totalOdds, payout); err != nil {
			s.log.WithError(err).WithField("parlay_id", parlay.ID).Warn("Failed to save parlay totals")
			continue
		}
		s.audit.LogParlayTotalsChange(parlay.ID, parlay.TotalOdds, totalOdds, parlay.PotentialPayout, payout)
		metrics.RecordParlayUpdate()
		updated++
	}
	return updated
}

func (s *Scheduler) parlayTotals(ctx context.Context, parlay models.ParlayRecord, byID map[int64]string) (string, float64, error) {
	if len(parlay.LegBetIDs) == 0 {
		return "", 0, models.ErrMissingLegs
	}

	legOdds := make([]string, 0, len(parlay.LegBetIDs))
	for _, id := range parlay.LegBetIDs {
		if price, ok := byID[id]; ok {
			legOdds = append(legOdds, price)
			continue
		}
		bet, err := s.store.GetBet(ctx, id)
		if err != nil {
			return "", 0, fmt.Errorf("failed to load leg %d: %w", id, err)
		}
		legOdds = append(legOdds, bet.Odds)
	}

	return ParlayTotals(legOdds, parlay.Stake)
}

// ParlayTotals returns the combined American odds and the payout for a stake, rounded to cents
func ParlayTotals(legOdds []string, stake float64) (string, float64, error) {
	total := 1.0
	for _, american := range legOdds {
		d, err := odds.ToDecimal(american)
		if err != nil {
			return "", 0, err
		}
		total *= d
	}

	totalOdds, err := odds.ToAmerican(total)
	if err != nil {
		return "", 0, err
	}
	payout := decimal.NewFromFloat(stake).Mul(decimal.NewFromFloat(total)).Round(2)
	return totalOdds, payout.InexactFloat64(), nil
}

func (s *Scheduler) recordTick(event TickEvent) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	at := event.FinishedAt
	s.lastTickID = event.ID
	s.lastTickAt = &at
	s.tickCount++
	metrics.UpdateLastRefresh(float64(at.Unix()))
}

// groupBySport groups bets by sport name, preserving first-seen order
func groupBySport(bets []models.BetRecord) (map[string][]*models.BetRecord, []string) {
	groups := make(map[string][]*models.BetRecord)
	var order []string
	for i := range bets {
		name := bets[i].SportName
		if name == "" {
			continue
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], &bets[i])
	}
	return groups, order
}

// findTeamOdds returns the American price of the bet's team from the first
// event that lists it in the first bookmaker's h2h market
func findTeamOdds(events []models.Event, bet *models.BetRecord) (string, bool) {
	for i := range events {
		event := &events[i]
		if !event.Involves(bet) {
			continue
		}
		market, ok := event.HeadToHead()
		if !ok {
			continue
		}
		for _, outcome := range market.Outcomes {
			if !bet.MatchesTeam(outcome.Name) {
				continue
			}
			american, err := odds.ToAmerican(outcome.Price)
			if err != nil {
				// malformed price on this event; keep looking
				break
			}
			return american, true
		}
	}
	return "", false
}
