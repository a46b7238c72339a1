// Package http provides HTTP handlers and middleware for the attendance
// tracker API.
//
// The router exposes the following endpoints:
//   - GET /courses, POST /courses, GET /courses/{id}, PUT /courses/{id},
//     DELETE /courses/{id}: course management endpoints exchanging the
//     `courseDTO` payload defined in course_handler.go. Listings are enriched
//     with attendance counters and the current percentage.
//   - GET /courses/{id}/status: the full policy evaluation for one course
//     (percentage, threshold, classes still needed, classes that can still be
//     missed, status band).
//   - GET /courses/{id}/reminders: the weekly reminder plans derived from the
//     course schedule. POST /courses/{id}/reminders/sync replaces the
//     course's scheduled reminders with freshly computed ones.
//   - POST /attendance: marks one class occurrence. PUT /attendance/{id} and
//     DELETE /attendance/{id} edit or remove a mark.
//   - GET /attendance/course/{id}: a course's records, newest first.
//   - GET /attendance/absences: every absence across courses joined with
//     course display fields.
//   - POST /attendance/bulk: inserts weekly-spaced present marks ending at an
//     anchor date, skipping already-recorded dates.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
