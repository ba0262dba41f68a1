// Package engine owns the single active workspace session: check-in,
// extension, manual and automatic end, and the seat inventory and wallet
// ledger those transitions touch. All state lives in one aggregate that is
// saved as a whole after every transition.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
	"github.com/iliyamo/workspace-sessions/internal/clock"
	"github.com/iliyamo/workspace-sessions/internal/model"
	"github.com/iliyamo/workspace-sessions/internal/wallet"
)

const (
	// TickInterval is the countdown period.
	TickInterval = time.Second
	// ExtensionDelta is how far Extend pushes the end time.
	ExtensionDelta = 30 * time.Minute
	// ReminderLead is how long before the end the reminder fires.
	ReminderLead = 10 * time.Minute

	reminderTitle = "Session ending soon"
)

var (
	// Cashback is credited on every check-in.
	Cashback = decimal.RequireFromString("0.50")
	// ExtensionFee is debited on every extension.
	ExtensionFee = decimal.RequireFromString("1.00")
)

// Notifier is the out-of-band reminder collaborator.
type Notifier interface {
	Schedule(at time.Time, title, body string)
	CancelAll()
}

// Saver persists the whole application state.
type Saver interface {
	Save(ctx context.Context, st model.AppState) error
}

// Options configures an Engine. Zero values fall back to the real clock,
// the embedded seed catalog, a no-op notifier and no persistence.
type Options struct {
	Clock      clock.Clock
	Notifier   Notifier
	Store      Saver
	Seed       func() []model.Venue
	HolderName string
	Location   *time.Location // calendar used for "today" revenue
}

// Engine is the session state machine. It is safe for concurrent use;
// every mutation runs to completion under one lock.
type Engine struct {
	clock    clock.Clock
	notifier Notifier
	store    Saver
	holder   string
	loc      *time.Location
	logger   *log.Logger

	mu        sync.Mutex
	role      model.Role
	catalog   *catalog.Catalog
	wallet    *wallet.Ledger
	current   *model.Session
	history   []model.Session
	countdown countdown
	outbox    []Event

	lmu          sync.Mutex
	listeners    []listenerEntry
	nextListener int
}

// New returns an idle engine with the seed catalog and an empty wallet.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Seed == nil {
		opts.Seed = catalog.Seed
	}
	if opts.HolderName == "" {
		opts.HolderName = "You"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Engine{
		clock:    opts.Clock,
		notifier: opts.Notifier,
		store:    opts.Store,
		holder:   opts.HolderName,
		loc:      opts.Location,
		logger:   log.New("engine"),
		role:     model.RoleNone,
		catalog:  catalog.New(opts.Seed),
		wallet:   wallet.New(opts.Clock.Now),
	}
}

// Restore replaces the engine state with a loaded snapshot. A session that
// is still running resumes its countdown and reminder; one whose end time
// passed while the process was down is closed at its scheduled end and
// its seat released. With no venues in the snapshot the seed is loaded and
// the session's seat is taken from it.
func (e *Engine) Restore(st model.AppState) {
	e.mu.Lock()
	defer e.unlock()

	e.stopCountdownLocked()
	e.notifier.CancelAll()

	e.role = st.Role
	if e.role == "" {
		e.role = model.RoleNone
	}
	seeded := len(st.Venues) == 0
	if seeded {
		e.catalog.ResetToSeed()
	} else {
		e.catalog.Replace(st.Venues)
	}
	e.history = append([]model.Session(nil), st.History...)
	e.wallet.Restore(st.Balance, st.Transactions)
	e.current = nil

	if st.Current == nil {
		e.saveLocked()
		return
	}
	s := *st.Current
	e.current = &s
	if seeded {
		// The seed has not seen this check-in, so take its seat now.
		if err := e.catalog.DebitSeat(s.VenueID); err != nil {
			e.logger.Warnf("hold seat for restored session %s: %v", s.ID, err)
		}
	}
	now := e.clock.Now()
	if s.IsActive(now) {
		e.scheduleReminderLocked()
		e.startCountdownLocked()
		e.logger.Infof("restored session %s at %s, %s remaining", s.ID, s.VenueName, s.Remaining(now).Round(time.Second))
		e.saveLocked()
		return
	}
	e.endLocked(s.EndTime, ReasonRestored)
}

// State returns a deep copy of the aggregate.
func (e *Engine) State() model.AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() model.AppState {
	st := model.AppState{
		Role:         e.role,
		Venues:       e.catalog.List(),
		History:      append([]model.Session(nil), e.history...),
		Balance:      e.wallet.Balance(),
		Transactions: e.wallet.Transactions(),
	}
	if e.current != nil {
		s := *e.current
		st.Current = &s
	}
	return st
}

// saveLocked persists the aggregate. Failures are logged and never undo
// the transition that was already applied in memory.
func (e *Engine) saveLocked() {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.store.Save(ctx, e.stateLocked()); err != nil {
		e.logger.Errorf("save state: %v", err)
	}
}

type nopNotifier struct{}

func (nopNotifier) Schedule(time.Time, string, string) {}
func (nopNotifier) CancelAll()                        {}
