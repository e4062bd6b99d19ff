package domain

import (
	"strings"
	"time"
)

type Facility struct {
	FacilityID  string    `json:"id" dynamodbav:"facility_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	Capacity    int       `json:"capacity" dynamodbav:"capacity"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

type FacilityInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
}

// BookingRequest reserves a facility for a time window on a date.
// StartTime and EndTime are "HH:MM" on Date ("YYYY-MM-DD").
type BookingRequest struct {
	BookingID    string    `json:"id" dynamodbav:"booking_id"`
	FacilityID   string    `json:"facility_id" dynamodbav:"facility_id"`
	FacilityName string    `json:"facility_name" dynamodbav:"facility_name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Date         string    `json:"date" dynamodbav:"date"`
	StartTime    string    `json:"start_time" dynamodbav:"start_time"`
	EndTime      string    `json:"end_time" dynamodbav:"end_time"`
	Status       string    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateBookingRequest struct {
	Email        string `json:"email" validate:"required,email"`
	FacilityName string `json:"facility_name" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
}

type UpdateBookingStatusRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// ClockLayout is the time-of-day layout used by bookings. Parsing accepts
// a one-digit hour; stored values are always zero-padded.
const ClockLayout = "15:04"

// ParseClock returns the minutes past midnight for an "H:MM" or "HH:MM" value.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes past midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return time.Date(0, 1, 1, 0, minutes, 0, 0, time.UTC).Format(ClockLayout)
}

// Overlaps reports whether b shares any minute with the window [start, end)
// on date. A booking whose stored times do not parse is treated as
// overlapping.
func (b *BookingRequest) Overlaps(date string, start, end int) bool {
	if b.Date != date {
		return false
	}
	bs, err := ParseClock(b.StartTime)
	if err != nil {
		return true
	}
	be, err := ParseClock(b.EndTime)
	if err != nil {
		return true
	}
	return bs < end && start < be
}
