// Package reminder re-derives upcoming window openings on a coarse
// tick, pushes reminders to room subscribers, and marks absent members
// as missed when a window closes. Ticks are idempotent: every
// evaluation starts from the injected clock and the stored room set,
// so missed ticks after sleep or suspend only delay a reminder, never
// corrupt state.
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"accountability-backend/config"
	"accountability-backend/internal/engine"
	"accountability-backend/internal/model"
	"accountability-backend/internal/notification"
	"accountability-backend/internal/store"
)

// dispatcher is the slice of the worker pool the scheduler needs.
type dispatcher interface {
	Dispatch(msg notification.Message)
}

// Scheduler fires window reminders for every room on a fixed schedule.
type Scheduler struct {
	cfg   *config.Config
	store store.Store
	pool  dispatcher
	now   func() time.Time

	mu    sync.Mutex
	fired map[string]time.Time
	// openSince holds the OpensAt of each room's currently open window;
	// an entry disappearing marks the close transition.
	openSince map[int64]time.Time
}

// NewScheduler creates a reminder scheduler. The clock defaults to
// time.Now and is injectable for tests.
func NewScheduler(cfg *config.Config, s store.Store, pool dispatcher) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		store: s,
		pool:  pool,
		now:       time.Now,
		fired:     make(map[string]time.Time),
		openSince: make(map[int64]time.Time),
	}
}

// Run ticks once immediately, then once per minute until the context
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Reminder.Enabled {
		log.Println("Reminder scheduler is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder scheduler...")

	s.Tick(ctx)

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() { s.Tick(ctx) }); err != nil {
		log.Printf("Failed to schedule reminder tick: %v", err)
		return
	}
	c.Start()

	<-ctx.Done()
	log.Println("Reminder scheduler shutting down.")
	<-c.Stop().Done()
}

// Tick evaluates every room's window once and dispatches any due
// reminders. Errors are logged and contained; a failed tick is simply
// retried by the next one.
func (s *Scheduler) Tick(ctx context.Context) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		log.Printf("Reminder tick: failed to list rooms: %v", err)
		return
	}

	now := s.now()
	for _, room := range rooms {
		s.evaluateRoom(ctx, room, now)
	}
	s.prune(now)
}

func (s *Scheduler) evaluateRoom(ctx context.Context, room model.Room, now time.Time) {
	if room.WindowStart == "" || room.WindowEnd == "" {
		return
	}

	loc := s.roomLocation(room)
	state := engine.EvaluateWindow(
		engine.TimeWindow{Start: room.WindowStart, End: room.WindowEnd},
		now.In(loc),
	)
	if !state.Enabled {
		return
	}

	if state.Open {
		s.mu.Lock()
		s.openSince[room.ID] = state.OpensAt
		s.mu.Unlock()
	} else {
		s.mu.Lock()
		opensAt, wasOpen := s.openSince[room.ID]
		delete(s.openSince, room.ID)
		s.mu.Unlock()
		if wasOpen {
			s.markMissed(ctx, room, opensAt)
		}
	}

	lead := s.cfg.Reminder.LeadMinutes * 60
	switch {
	case !state.Open && state.Seconds <= lead:
		s.fire(occurrenceKey(room.ID, "opening", state.OpensAt), state.OpensAt, notification.Message{
			Kind:      notification.KindWindowOpening,
			RoomID:    room.ID,
			RoomName:  room.Name,
			Countdown: state.Countdown,
		})
	case state.Open && (state.Urgency == engine.UrgencyHigh || state.Urgency == engine.UrgencyCritical):
		s.fire(occurrenceKey(room.ID, "closing", state.OpensAt), state.ClosesAt, notification.Message{
			Kind:      notification.KindWindowClosing,
			RoomID:    room.ID,
			RoomName:  room.Name,
			Countdown: state.Countdown,
			Urgency:   string(state.Urgency),
		})
	}
}

// fire dispatches a reminder unless its occurrence key has already
// fired. The key is stable per calendar occurrence, so re-evaluation
// on later ticks never double-fires.
func (s *Scheduler) fire(key string, occurrence time.Time, msg notification.Message) {
	s.mu.Lock()
	if _, done := s.fired[key]; done {
		s.mu.Unlock()
		return
	}
	s.fired[key] = occurrence
	s.mu.Unlock()

	log.Printf("Dispatching %s reminder for room %d", msg.Kind, msg.RoomID)
	s.pool.Dispatch(msg)
}

// markMissed records a miss for every member who let the occurrence
// pass without a submission. The occurrence's calendar day is the day
// the window opened in the room's timezone.
func (s *Scheduler) markMissed(ctx context.Context, room model.Room, opensAt time.Time) {
	day := time.Date(opensAt.Year(), opensAt.Month(), opensAt.Day(), 0, 0, 0, 0, time.UTC)
	marked, err := s.store.MarkMissed(ctx, room.ID, day)
	if err != nil {
		log.Printf("Failed to mark misses for room %d: %v", room.ID, err)
		return
	}
	if marked > 0 {
		log.Printf("Marked %d members missed for room %d on %s", marked, room.ID, day.Format("2006-01-02"))
	}
}

// prune drops dedup keys whose occurrence is well in the past.
func (s *Scheduler) prune(now time.Time) {
	cutoff := now.Add(-48 * time.Hour)
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, occurrence := range s.fired {
		if occurrence.Before(cutoff) {
			delete(s.fired, key)
		}
	}
}

func (s *Scheduler) roomLocation(room model.Room) *time.Location {
	tz := room.Timezone
	if tz == "" {
		tz = s.cfg.Reminder.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Invalid timezone %q for room %d; falling back to UTC", tz, room.ID)
		return time.UTC
	}
	return loc
}

// occurrenceKey identifies one calendar occurrence of a room's window.
func occurrenceKey(roomID int64, phase string, opensAt time.Time) string {
	return fmt.Sprintf("%d:%s:%s", roomID, phase, opensAt.Format("2006-01-02"))
}
