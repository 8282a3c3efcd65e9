// Package stats derives aggregate counts from collections held in view state.
// Every function is pure; counts are recomputed whenever the collection
// changes and are never taken from the server when local state exists.
package stats

import (
	"time"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

// Record is anything with a status and a creation time. A blank status or an
// invalid time excludes the record from the matching counts.
type Record interface {
	StatusValue() string
	CreatedTime() (time.Time, bool)
}

type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func CountByStatus[T Record](items []T, status string) int {
	if status == "" {
		return 0
	}
	count := 0
	for _, item := range items {
		if item.StatusValue() == status {
			count++
		}
	}
	return count
}

func CountAnyStatus[T Record](items []T, statuses ...string) int {
	count := 0
	for _, item := range items {
		value := item.StatusValue()
		if value == "" {
			continue
		}
		for _, status := range statuses {
			if value == status {
				count++
				break
			}
		}
	}
	return count
}

// CountToday counts records created on now's calendar date, in now's location.
func CountToday[T Record](items []T, now time.Time) int {
	count := 0
	for _, item := range items {
		created, ok := item.CreatedTime()
		if !ok {
			continue
		}
		if SameDay(created, now) {
			count++
		}
	}
	return count
}

func SameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

type TokenSummary struct {
	Total      int `json:"total"`
	Today      int `json:"today"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

func SummarizeTokens(tokens []models.Token, now time.Time) TokenSummary {
	return TokenSummary{
		Total:      len(tokens),
		Today:      CountToday(tokens, now),
		Pending:    CountByStatus(tokens, models.StatusPending),
		InProgress: CountByStatus(tokens, models.StatusInProgress),
		Completed:  CountByStatus(tokens, models.StatusCompleted),
		Cancelled:  CountByStatus(tokens, models.StatusCancelled),
	}
}

type PassengerSummary struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

func SummarizePassengers(passengers []models.Passenger, now time.Time) PassengerSummary {
	return PassengerSummary{
		Total:     len(passengers),
		Today:     CountToday(passengers, now),
		Active:    CountAnyStatus(passengers, models.StatusWaiting, models.StatusInProgress),
		Completed: CountByStatus(passengers, models.StatusCompleted),
	}
}

type ReportSummary struct {
	Rows             int `json:"rows"`
	Passengers       int `json:"passengers"`
	PassengersFilled int `json:"passengers_filled"`
	Completed        int `json:"completed"`
}

func SummarizeReports(rows []models.ReportRow) ReportSummary {
	summary := ReportSummary{Rows: len(rows), Completed: CountByStatus(rows, models.StatusCompleted)}
	for _, row := range rows {
		summary.Passengers += row.PassengerCount.Int()
		summary.PassengersFilled += row.PassengersFilled.Int()
	}
	return summary
}
