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

// dateLayout is the wire format for attendance dates.
const dateLayout = "2006-01-02"

type attendanceService interface {
	MarkAttendance(ctx context.Context, input attendance.RecordInput) (persistence.AttendanceRecord, error)
	UpdateRecord(ctx context.Context, recordID string, update attendance.RecordUpdate) (persistence.AttendanceRecord, error)
	DeleteRecord(ctx context.Context, recordID string) error
	ListForCourse(ctx context.Context, courseID string) ([]persistence.AttendanceRecord, error)
	ListAbsences(ctx context.Context) ([]persistence.AbsenceWithCourse, error)
	BulkMark(ctx context.Context, input attendance.BulkInput) (persistence.BulkCreateResult, error)
}

type AttendanceHandler struct {
	service   attendanceService
	responder responder
	logger    *slog.Logger
}

func NewAttendanceHandler(service attendanceService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Mark", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Mark", "course_id", req.CourseID)

	if details := validateRequest(req); details != nil {
		logger.ErrorContext(r.Context(), "attendance request rejected", "error_kind", "validation", "fields", len(details))
		h.responder.writeValidationFailure(r.Context(), w, details)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance request rejected", "error_kind", "validation", "error", err)
		h.responder.writeValidationFailure(r.Context(), w, map[string]string{"date": "must be YYYY-MM-DD"})
		return
	}

	record, err := h.service.MarkAttendance(r.Context(), attendance.RecordInput{
		CourseID: strings.TrimSpace(req.CourseID),
		Date:     date,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance marking failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("record_id", record.ID).InfoContext(r.Context(), "attendance marked")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, recordResponse{Record: toRecordDTO(record)})
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	recordID, ok := RecordIDFromContext(r.Context())
	if !ok || strings.TrimSpace(recordID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing record id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "record_id", recordID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode record update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "record_id", recordID)

	if details := validateRequest(req); details != nil {
		logger.ErrorContext(r.Context(), "record update rejected", "error_kind", "validation", "fields", len(details))
		h.responder.writeValidationFailure(r.Context(), w, details)
		return
	}

	record, err := h.service.UpdateRecord(r.Context(), recordID, attendance.RecordUpdate{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "record update failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "record updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, recordResponse{Record: toRecordDTO(record)})
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	recordID, ok := RecordIDFromContext(r.Context())
	if !ok || strings.TrimSpace(recordID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing record id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	logger := h.log(r.Context(), "Delete", "record_id", recordID)
	if err := h.service.DeleteRecord(r.Context(), recordID); err != nil {
		logger.ErrorContext(r.Context(), "record delete failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "record deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AttendanceHandler) ListForCourse(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	logger := h.log(r.Context(), "ListForCourse", "course_id", courseID)
	records, err := h.service.ListForCourse(r.Context(), courseID)
	if err != nil {
		logger.ErrorContext(r.Context(), "record list failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(records)).InfoContext(r.Context(), "records listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRecordsResponse{Records: toRecordDTOs(records)})
}

func (h *AttendanceHandler) Absences(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Absences")
	absences, err := h.service.ListAbsences(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "absence list failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(absences)).InfoContext(r.Context(), "absences listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAbsencesResponse{Absences: toAbsenceDTOs(absences)})
}

func (h *AttendanceHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bulkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Bulk", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode bulk request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Bulk", "course_id", req.CourseID, "count", req.NumberOfClasses)

	if details := validateRequest(req); details != nil {
		logger.ErrorContext(r.Context(), "bulk request rejected", "error_kind", "validation", "fields", len(details))
		h.responder.writeValidationFailure(r.Context(), w, details)
		return
	}

	var anchor time.Time
	if strings.TrimSpace(req.AnchorDate) != "" {
		parsed, err := time.Parse(dateLayout, req.AnchorDate)
		if err != nil {
			logger.ErrorContext(r.Context(), "bulk request rejected", "error_kind", "validation", "error", err)
			h.responder.writeValidationFailure(r.Context(), w, map[string]string{"anchorDate": "must be YYYY-MM-DD"})
			return
		}
		anchor = parsed
	}

	result, err := h.service.BulkMark(r.Context(), attendance.BulkInput{
		CourseID: strings.TrimSpace(req.CourseID),
		Count:    req.NumberOfClasses,
		Anchor:   anchor,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "bulk marking failed", "error", err, "error_kind", attendance.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("created", result.Created, "skipped", result.Skipped).InfoContext(r.Context(), "bulk attendance added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bulkAttendanceResponse{
		Created: result.Created,
		Skipped: result.Skipped,
	})
}

type markAttendanceRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=present absent"`
	Notes    string `json:"notes"`
}

type updateRecordRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=present absent"`
	Notes  *string `json:"notes"`
}

type bulkAttendanceRequest struct {
	CourseID        string `json:"courseId" validate:"required"`
	NumberOfClasses int    `json:"numberOfClasses" validate:"required,gte=1,lte=100"`
	AnchorDate      string `json:"anchorDate"`
}

type bulkAttendanceResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type recordResponse struct {
	Record recordDTO `json:"record"`
}

type listRecordsResponse struct {
	Records []recordDTO `json:"records"`
}

type listAbsencesResponse struct {
	Absences []absenceDTO `json:"absences"`
}

type recordDTO struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type absenceDTO struct {
	recordDTO
	CourseName  string `json:"courseName"`
	CourseColor string `json:"courseColor"`
}

func toRecordDTO(record persistence.AttendanceRecord) recordDTO {
	return recordDTO{
		ID:        record.ID,
		CourseID:  record.CourseID,
		Date:      record.Date.Format(dateLayout),
		Status:    record.Status,
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRecordDTOs(records []persistence.AttendanceRecord) []recordDTO {
	if len(records) == 0 {
		return nil
	}
	out := make([]recordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordDTO(record))
	}
	return out
}

func toAbsenceDTOs(absences []persistence.AbsenceWithCourse) []absenceDTO {
	if len(absences) == 0 {
		return nil
	}
	out := make([]absenceDTO, 0, len(absences))
	for _, absence := range absences {
		out = append(out, absenceDTO{
			recordDTO:   toRecordDTO(absence.Record),
			CourseName:  absence.CourseName,
			CourseColor: absence.CourseColor,
		})
	}
	return out
}
