// Package errors defines business error codes and helpers.
package errors

import (
	"fmt"
)

// AppError is an application error with a stable code.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an application error.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an application error around an underlying one.
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy with a different message.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError returns a copy carrying the underlying error.
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Is matches AppErrors by code so sentinels survive WithMessage/WithError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Generic error codes (1000-1999)
var (
	ErrUnknown         = New(1000, "unknown error")
	ErrInvalidParams   = New(1001, "invalid parameters")
	ErrNotFound        = New(1002, "resource not found")
	ErrAlreadyExists   = New(1003, "resource already exists")
	ErrDatabaseError   = New(1004, "database error")
	ErrCacheError      = New(1005, "cache error")
	ErrInternalError   = New(1006, "internal error")
	ErrExternalService = New(1007, "external service error")
	ErrRateLimitExceed = New(1008, "too many requests")
	ErrOperationFailed = New(1009, "operation failed")
)

// Catalog error codes (3000-3999)
var (
	ErrAreaNotFound     = New(3000, "area not found")
	ErrSaloonNotFound   = New(3001, "saloon not found")
	ErrSaloonInactive   = New(3002, "saloon is inactive")
	ErrTableNotFound    = New(3003, "table not found")
	ErrTableInactive    = New(3004, "table is inactive")
	ErrInvalidCapacity  = New(3005, "table capacity must be greater than zero")
	ErrSaloonHasTables  = New(3006, "saloon still has tables")
	ErrAreaHasSaloons   = New(3007, "area still has saloons")
)

// Availability error codes (4000-4999)
var (
	ErrWindowNotFound   = New(4000, "availability window not found")
	ErrInvalidWeekday   = New(4001, "weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeRange = New(4002, "start time must be before end time")
	ErrInvalidTime      = New(4003, "time must be in HH:MM format")
	ErrCopySameTable    = New(4004, "cannot copy availability onto the source table")
)

// Block error codes (5000-5999)
var (
	ErrBlockNotFound     = New(5000, "block not found")
	ErrInvalidDateRange  = New(5001, "start date must not be after end date")
	ErrInvalidDate       = New(5002, "date must be in YYYY-MM-DD format")
	ErrBlockNeedsTarget  = New(5003, "table and saloon blocks require a reference")
	ErrInvalidBlockType  = New(5004, "block type must be table, saloon or restaurant")
)

// Reservation error codes (6000-6999)
var (
	ErrReservationNotFound  = New(6000, "reservation not found")
	ErrReservationConflict  = New(6001, "table already reserved for this time")
	ErrSlotBlocked          = New(6002, "the requested time is blocked")
	ErrOutsideOpeningHours  = New(6003, "the table is not open at the requested time")
	ErrTableNotAvailable    = New(6004, "table not available")
	ErrNoTableAvailable     = New(6005, "no table available for the requested time")
	ErrGuestsOverCapacity   = New(6006, "guest count exceeds table capacity")
	ErrGuestsOverLimit      = New(6007, "guest count exceeds the venue limit")
	ErrGuestsInvalid        = New(6008, "guest count must be greater than zero")
	ErrInvalidTransition    = New(6009, "invalid reservation status change")
	ErrCancelNotAllowed     = New(6010, "reservation can no longer be cancelled")
	ErrPastReservation      = New(6011, "reservation time is in the past")
	ErrCrossesMidnight      = New(6012, "reservation must end before midnight")
	ErrAdvanceTooShort      = New(6013, "reservation is below the minimum advance time")
	ErrAdvanceTooLong       = New(6014, "reservation is beyond the maximum advance time")
	ErrMissingCustomer      = New(6015, "customer name, phone and email are required")
	ErrReservationInactive  = New(6016, "reservation is inactive")
)

// Notification error codes (7000-7999)
var (
	ErrNotificationFailed   = New(7000, "notification delivery failed")
	ErrTemplateNotConfigured = New(7001, "notification template not configured")
)

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError coerces err into an AppError.
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
