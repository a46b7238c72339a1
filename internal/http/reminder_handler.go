package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/attendance"
)

type reminderService interface {
	PlansForCourse(ctx context.Context, courseID string) ([]attendance.ReminderPlan, []attendance.SlotError, error)
	Sync(ctx context.Context, courseID string) ([]attendance.ReminderPlan, []attendance.SlotError, error)
}

type ReminderHandler struct {
	service   reminderService
	responder responder
	logger    *slog.Logger
}

func NewReminderHandler(service reminderService, logger *slog.Logger) *ReminderHandler {
	base := defaultLogger(logger)
	return &ReminderHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReminderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReminderHandler", operation, attrs...)
}

// Plans returns the reminders the course's schedule implies without touching
// the dispatcher.
func (h *ReminderHandler) Plans(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	logger := h.log(r.Context(), "Plans", "course_id", courseID)
	plans, slotErrs, err := h.service.PlansForCourse(r.Context(), courseID)
	if err != nil {
		logger.ErrorContext(r.Context(), "reminder planning failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(plans)).InfoContext(r.Context(), "reminder plans listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, remindersResponse{
		Reminders:    toReminderDTOs(plans),
		SkippedSlots: toSlotErrorDTOs(slotErrs),
	})
}

// Sync replaces the course's scheduled reminders with freshly computed plans.
func (h *ReminderHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	logger := h.log(r.Context(), "Sync", "course_id", courseID)
	plans, slotErrs, err := h.service.Sync(r.Context(), courseID)
	if err != nil {
		logger.ErrorContext(r.Context(), "reminder sync failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("scheduled", len(plans), "skipped_slots", len(slotErrs)).InfoContext(r.Context(), "reminders synced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, remindersResponse{
		Reminders:    toReminderDTOs(plans),
		SkippedSlots: toSlotErrorDTOs(slotErrs),
	})
}

type remindersResponse struct {
	Reminders    []reminderDTO  `json:"reminders"`
	SkippedSlots []slotErrorDTO `json:"skippedSlots,omitempty"`
}

type reminderDTO struct {
	Key       string `json:"key"`
	CourseID  string `json:"courseId"`
	SlotIndex int    `json:"slotIndex"`
	Type      string `json:"type"`
	TriggerAt string `json:"triggerAt"`
	Weekday   string `json:"weekday"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

type slotErrorDTO struct {
	SlotIndex int    `json:"slotIndex"`
	Error     string `json:"error"`
}

func toReminderDTOs(plans []attendance.ReminderPlan) []reminderDTO {
	if len(plans) == 0 {
		return nil
	}
	out := make([]reminderDTO, 0, len(plans))
	for _, plan := range plans {
		out = append(out, reminderDTO{
			Key:       plan.Key,
			CourseID:  plan.CourseID,
			SlotIndex: plan.SlotIndex,
			Type:      string(plan.Kind),
			TriggerAt: plan.TriggerAt.UTC().Format(time.RFC3339),
			Weekday:   plan.Weekday.String(),
			Hour:      plan.Hour,
			Minute:    plan.Minute,
			Title:     plan.Title,
			Body:      plan.Body,
		})
	}
	return out
}

func toSlotErrorDTOs(slotErrs []attendance.SlotError) []slotErrorDTO {
	if len(slotErrs) == 0 {
		return nil
	}
	out := make([]slotErrorDTO, 0, len(slotErrs))
	for _, slotErr := range slotErrs {
		out = append(out, slotErrorDTO{SlotIndex: slotErr.SlotIndex, Error: slotErr.Error()})
	}
	return out
}
