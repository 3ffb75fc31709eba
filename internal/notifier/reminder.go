package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/utils"
)

var ErrReminderRunning = errors.New("reminder is already running")

// CheckFunc reports whether a reminder is due at now, typically when the
// active habit has no stamp for today.
type CheckFunc func(now time.Time) (bool, error)

// NotifyFunc delivers the reminder text.
type NotifyFunc func(text string) error

type ReminderConfig struct {
	// Time is the daily fire time as HH:MM in Location.
	Time     string
	Location *time.Location
	Message  string
}

// Reminder fires at most once per local day at the configured time. Its
// lifecycle is owned by the caller through Start and Stop.
type Reminder struct {
	hour, minute int
	loc          *time.Location
	message      string
	check        CheckFunc
	notify       NotifyFunc

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	retry time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	lastFired string
}

func NewReminder(cfg ReminderConfig, check CheckFunc, notify NotifyFunc) (*Reminder, error) {
	if check == nil || notify == nil {
		return nil, errors.New("reminder needs both a check and a notify function")
	}
	minutes, err := utils.ParseTimeToMinutes(cfg.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time %q: %w", cfg.Time, err)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	msg := cfg.Message
	if msg == "" {
		msg = constants.ReminderMessage
	}
	return &Reminder{
		hour:    minutes / 60,
		minute:  minutes % 60,
		loc:     loc,
		message: msg,
		check:   check,
		notify:  notify,
		now:     time.Now,
		after:   time.After,
		retry:   constants.NotifyRetryDelay,
	}, nil
}

// NextFire returns the first fire time strictly after now.
func (r *Reminder) NextFire(now time.Time) time.Time {
	local := now.In(r.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), r.hour, r.minute, 0, 0, r.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, r.hour, r.minute, 0, 0, r.loc)
	}
	return next
}

// Start runs the reminder loop in the background until ctx is done or Stop
// is called.
func (r *Reminder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrReminderRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
	return nil
}

// Stop cancels the loop and waits for it to exit. Safe to call when not running.
func (r *Reminder) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Reminder) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		now := r.now()
		wait := r.NextFire(now).Sub(now)
		select {
		case <-ctx.Done():
			return
		case <-r.after(wait):
			r.Fire(r.now())
		}
	}
}

// Fire checks and delivers the reminder for the day of now. It reports
// whether a notification was delivered.
func (r *Reminder) Fire(now time.Time) bool {
	day := utils.DateKey(now.In(r.loc))

	r.mu.Lock()
	already := r.lastFired == day
	r.mu.Unlock()
	if already {
		return false
	}

	due, err := r.check(now)
	if err != nil {
		logger.Warn("Reminder check failed", "error", err)
		return false
	}
	if !due {
		logger.Debug("Reminder skipped, already stamped", "date", day)
		return false
	}

	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(r.retry)
		}
		if lastErr = r.notify(r.message); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		logger.Warn("Reminder delivery failed", "error", lastErr, "attempts", constants.NotifyMaxRetries)
		return false
	}

	r.mu.Lock()
	r.lastFired = day
	r.mu.Unlock()
	logger.Info("Reminder delivered", "date", day)
	return true
}
