package model

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// HealthLogID is the store-assigned identifier of a HealthLog
type HealthLogID string

// NewHealthLogID generates a time-ordered UUID v7 HealthLogID
func NewHealthLogID() HealthLogID {
	return HealthLogID(uuid.Must(uuid.NewV7()).String())
}

// HealthLog is one daily log entry. Entries are append-only and never
// modified after they are written.
type HealthLog struct {
	ID              HealthLogID `json:"id"`
	Date            *civil.Date `json:"date"` // nil only for legacy records without a date
	HeartRate       *int        `json:"heartRate,omitempty"`
	SleepHours      *float64    `json:"sleepHours,omitempty"`
	ActivityMinutes *int        `json:"activityMinutes,omitempty"`
	Mood            string      `json:"mood,omitempty"`
	Symptoms        string      `json:"symptoms,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
}

// Validate checks a new entry before it is appended
func (x *HealthLog) Validate() error {
	if x.Date == nil {
		return goerr.New("date is required")
	}
	if !x.Date.IsValid() {
		return goerr.New("date is invalid", goerr.V("date", x.Date.String()))
	}
	if x.HeartRate != nil && *x.HeartRate < 0 {
		return goerr.New("heart rate must not be negative", goerr.V("heartRate", *x.HeartRate))
	}
	if x.SleepHours != nil && (*x.SleepHours < 0 || *x.SleepHours > 24) {
		return goerr.New("sleep hours must be between 0 and 24", goerr.V("sleepHours", *x.SleepHours))
	}
	if x.ActivityMinutes != nil && *x.ActivityMinutes < 0 {
		return goerr.New("activity minutes must not be negative", goerr.V("activityMinutes", *x.ActivityMinutes))
	}
	return nil
}

// DateToInstant converts a calendar date to the stored instant (UTC midnight)
func DateToInstant(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// InstantToDate converts a stored instant back to its calendar date in UTC
func InstantToDate(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

// CompareHealthLogs orders entries newest date first. Entries without a date
// go last; equal dates fall back to the ID, newest first.
func CompareHealthLogs(a, b *HealthLog) int {
	switch {
	case a.Date == nil && b.Date == nil:
	case a.Date == nil:
		return 1
	case b.Date == nil:
		return -1
	case a.Date.After(*b.Date):
		return -1
	case a.Date.Before(*b.Date):
		return 1
	}
	return -strings.Compare(string(a.ID), string(b.ID))
}

// SortHealthLogs sorts logs in place in display order (see CompareHealthLogs)
func SortHealthLogs(logs []*HealthLog) {
	slices.SortStableFunc(logs, CompareHealthLogs)
}

// RecentHealthLogs returns at most n leading entries of an already sorted slice
func RecentHealthLogs(logs []*HealthLog, n int) []*HealthLog {
	if n < 0 || len(logs) <= n {
		return logs
	}
	return logs[:n]
}
