// Package utils provides shared utility functions.
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes on the wall clock.
const MinutesPerDay = 24 * 60

// GenerateReservationCode generates a reservation code.
// Format: prefix + yyyymmddHHMMSS + 4 random digits.
func GenerateReservationCode(prefix string) string {
	now := time.Now()
	timestamp := now.Format("20060102150405")
	random := GenerateRandomNumber(4)
	return fmt.Sprintf("%s%s%s", prefix, timestamp, random)
}

// GenerateRandomNumber generates a random digit string of the given length.
func GenerateRandomNumber(length int) string {
	var result strings.Builder
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		result.WriteString(strconv.Itoa(int(n.Int64())))
	}
	return result.String()
}

// RandomIndex returns a uniform random index in [0, n).
func RandomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// ValidateEmail checks an email address.
func ValidateEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// ValidatePhone checks a phone number: digits, spaces and separators,
// optional leading +, at least 8 digits.
func ValidatePhone(phone string) bool {
	pattern := `^\+?[0-9][0-9 ()\-]{7,19}$`
	matched, _ := regexp.MatchString(pattern, phone)
	return matched
}

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidTimeOfDay reports whether s is a zero-padded HH:MM clock time.
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	if !ValidTimeOfDay(s) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

// MinutesToTime converts minutes since midnight to "HH:MM".
// Values outside a single day are not representable.
func MinutesToTime(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("minutes %d outside a single day", minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// AddMinutes returns start + duration as "HH:MM", failing past midnight.
func AddMinutes(start string, duration int) (string, error) {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return "", err
	}
	return MinutesToTime(startMin + duration)
}

// DateOnly truncates t to midnight UTC so date columns compare cleanly.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// FormatDate renders a date column value as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// CombineDateTime builds a local wall-clock instant from a date column
// value and an HH:MM time.
func CombineDateTime(date time.Time, timeOfDay string) (time.Time, error) {
	minutes, err := TimeToMinutes(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0, time.Local), nil
}

// Pagination carries normalized page parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize clamps pagination values to sane bounds.
func (p *Pagination) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// GetOffset returns the row offset for the page.
func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit returns the page size.
func (p *Pagination) GetLimit() int {
	return p.PageSize
}

// StringPtr returns a string pointer.
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns an int64 pointer.
func Int64Ptr(i int64) *int64 {
	return &i
}

// TimePtr returns a time pointer.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// SafeString dereferences a string pointer.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
