package util

import "errors"

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrSemesterNotFound     = errors.New("semester not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrPerformanceNotFound  = errors.New("performance record not found")
	ErrRiskRecordNotFound   = errors.New("at-risk record not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)
