package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/attendance"
	"github.com/example/attendance-tracker/internal/persistence"
)

type courseService interface {
	CreateCourse(ctx context.Context, input attendance.CourseInput) (persistence.Course, error)
	UpdateCourse(ctx context.Context, courseID string, input attendance.CourseInput) (persistence.Course, error)
	GetCourse(ctx context.Context, courseID string) (persistence.Course, error)
	ListCourses(ctx context.Context) ([]attendance.CourseOverview, error)
	DeleteCourse(ctx context.Context, courseID string) error
	ComputeStatus(ctx context.Context, courseID string) (attendance.CourseStatus, error)
}

type CourseHandler struct {
	service   courseService
	responder responder
	logger    *slog.Logger
}

func NewCourseHandler(service courseService, logger *slog.Logger) *CourseHandler {
	base := defaultLogger(logger)
	return &CourseHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CourseHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CourseHandler", operation, attrs...)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "name", req.Name)

	if details := validateRequest(req); details != nil {
		logger.ErrorContext(r.Context(), "course request rejected", "error_kind", "validation", "fields", len(details))
		h.responder.writeValidationFailure(r.Context(), w, details)
		return
	}

	course, err := h.service.CreateCourse(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "course creation failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("course_id", course.ID).InfoContext(r.Context(), "course created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing course id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "course_id", courseID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "course_id", courseID)

	if details := validateRequest(req); details != nil {
		logger.ErrorContext(r.Context(), "course request rejected", "error_kind", "validation", "fields", len(details))
		h.responder.writeValidationFailure(r.Context(), w, details)
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), courseID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "course update failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "course updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.log(r.Context(), "Get", "course_id", courseID).ErrorContext(r.Context(), "course lookup failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	overviews, err := h.service.ListCourses(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "course list failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(overviews)).InfoContext(r.Context(), "courses listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCoursesResponse{Courses: toCourseOverviewDTOs(overviews)})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing course id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	logger := h.log(r.Context(), "Delete", "course_id", courseID)
	if err := h.service.DeleteCourse(r.Context(), courseID); err != nil {
		logger.ErrorContext(r.Context(), "course delete failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "course deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CourseHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	status, err := h.service.ComputeStatus(r.Context(), courseID)
	if err != nil {
		h.log(r.Context(), "Status", "course_id", courseID).ErrorContext(r.Context(), "status evaluation failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toStatusDTO(status))
}

type courseRequest struct {
	Name                    string            `json:"name" validate:"required"`
	Type                    string            `json:"type"`
	Color                   string            `json:"color"`
	Schedule                []scheduleSlotDTO `json:"schedule" validate:"dive"`
	MinAttendancePercentage *float64          `json:"minAttendancePercentage" validate:"omitempty,gte=0,lte=100"`
	MinAttendanceClasses    *int              `json:"minAttendanceClasses" validate:"omitempty,gte=0"`
	TotalClassesInSemester  *int              `json:"totalClassesInSemester" validate:"omitempty,gte=0"`
}

func (r courseRequest) toInput() attendance.CourseInput {
	return attendance.CourseInput{
		Name:          strings.TrimSpace(r.Name),
		Type:          strings.TrimSpace(r.Type),
		Color:         strings.TrimSpace(r.Color),
		Schedule:      toScheduleSlots(r.Schedule),
		MinPercentage: r.MinAttendancePercentage,
		MinClasses:    r.MinAttendanceClasses,
		SemesterTotal: r.TotalClassesInSemester,
	}
}

type scheduleSlotDTO struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

func toScheduleSlots(slots []scheduleSlotDTO) []persistence.ScheduleSlot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]persistence.ScheduleSlot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, persistence.ScheduleSlot{
			Day:       strings.TrimSpace(slot.Day),
			StartTime: strings.TrimSpace(slot.StartTime),
			EndTime:   strings.TrimSpace(slot.EndTime),
		})
	}
	return out
}

func toScheduleSlotDTOs(slots []persistence.ScheduleSlot) []scheduleSlotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]scheduleSlotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, scheduleSlotDTO{
			Day:       slot.Day,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	return out
}

type courseResponse struct {
	Course courseDTO `json:"course"`
}

type listCoursesResponse struct {
	Courses []courseOverviewDTO `json:"courses"`
}

type courseDTO struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	Type                    string            `json:"type"`
	Color                   string            `json:"color"`
	Schedule                []scheduleSlotDTO `json:"schedule,omitempty"`
	MinAttendancePercentage *float64          `json:"minAttendancePercentage,omitempty"`
	MinAttendanceClasses    *int              `json:"minAttendanceClasses,omitempty"`
	TotalClassesInSemester  *int              `json:"totalClassesInSemester,omitempty"`
	CreatedAt               string            `json:"createdAt"`
	UpdatedAt               string            `json:"updatedAt"`
}

type courseOverviewDTO struct {
	courseDTO
	TotalClasses         int     `json:"totalClasses"`
	AttendedClasses      int     `json:"attendedClasses"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

type statusDTO struct {
	CourseID           string  `json:"courseId"`
	TotalClasses       int     `json:"totalClasses"`
	AttendedClasses    int     `json:"attendedClasses"`
	Percentage         float64 `json:"percentage"`
	ThresholdPercent   float64 `json:"thresholdPercent"`
	AboveThreshold     bool    `json:"aboveThreshold"`
	CanStillMiss       int     `json:"canStillMiss"`
	ClassesStillNeeded int     `json:"classesStillNeeded"`
	Band               string  `json:"band"`
	Applicable         bool    `json:"applicable"`
}

func toCourseDTO(course persistence.Course) courseDTO {
	return courseDTO{
		ID:                      course.ID,
		Name:                    course.Name,
		Type:                    course.Type,
		Color:                   course.Color,
		Schedule:                toScheduleSlotDTOs(course.Schedule),
		MinAttendancePercentage: course.MinPercentage,
		MinAttendanceClasses:    course.MinClasses,
		TotalClassesInSemester:  course.SemesterTotal,
		CreatedAt:               course.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:               course.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toCourseOverviewDTOs(overviews []attendance.CourseOverview) []courseOverviewDTO {
	if len(overviews) == 0 {
		return nil
	}
	out := make([]courseOverviewDTO, 0, len(overviews))
	for _, overview := range overviews {
		out = append(out, courseOverviewDTO{
			courseDTO:            toCourseDTO(overview.Course),
			TotalClasses:         overview.Counters.Total,
			AttendedClasses:      overview.Counters.Attended,
			AttendancePercentage: overview.Percentage,
		})
	}
	return out
}

func toStatusDTO(status attendance.CourseStatus) statusDTO {
	return statusDTO{
		CourseID:           status.CourseID,
		TotalClasses:       status.Counters.Total,
		AttendedClasses:    status.Counters.Attended,
		Percentage:         status.Status.Percentage,
		ThresholdPercent:   status.Status.ThresholdPercent,
		AboveThreshold:     status.Status.AboveThreshold,
		CanStillMiss:       status.Status.CanStillMiss,
		ClassesStillNeeded: status.Status.StillNeeded,
		Band:               string(status.Status.Band),
		Applicable:         status.Status.Applicable,
	}
}
