package notify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Registry is an in-memory Dispatcher that keeps the scheduled reminders
// keyed for cancelation. It stands in for a platform notification service
// and backs the reminders API and tests.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Request
	logger  *slog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]Request),
		logger:  logger,
	}
}

// Schedule stores the reminder, replacing any previous entry with the same
// key.
func (r *Registry) Schedule(ctx context.Context, request Request) error {
	r.mu.Lock()
	r.entries[request.Key] = request
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "reminder scheduled",
		"key", request.Key,
		"course_id", request.CourseID,
		"weekday", request.Weekday.String(),
		"trigger_at", request.TriggerAt,
	)
	return nil
}

// CancelCourse removes every reminder belonging to the course.
func (r *Registry) CancelCourse(ctx context.Context, courseID string) error {
	r.mu.Lock()
	removed := 0
	for key, entry := range r.entries {
		if entry.CourseID == courseID {
			delete(r.entries, key)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.InfoContext(ctx, "reminders canceled", "course_id", courseID, "count", removed)
	}
	return nil
}

// ScheduledForCourse returns the course's reminders ordered by key.
func (r *Registry) ScheduledForCourse(courseID string) []Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]Request, 0)
	for _, entry := range r.entries {
		if entry.CourseID == courseID {
			requests = append(requests, entry)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Key < requests[j].Key })
	return requests
}
