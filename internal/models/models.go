package models

import (
	"net/url"
	"strings"
	"time"
)

type Token struct {
	ID             FlexString `json:"id"`
	TokenNumber    FlexString `json:"token_number"`
	PassengerName  string     `json:"passenger_name,omitempty"`
	VehicleNumber  string     `json:"vehicle_number,omitempty"`
	VehicleType    string     `json:"vehicle_type,omitempty"`
	PassengerCount FlexInt    `json:"passenger_count"`
	Status         string     `json:"status"`
	CreatedAt      Timestamp  `json:"created_at"`
}

func (t Token) StatusValue() string {
	return t.Status
}

func (t Token) CreatedTime() (time.Time, bool) {
	return t.CreatedAt.Time, t.CreatedAt.Valid
}

type Passenger struct {
	ID          FlexString `json:"id"`
	Name        string     `json:"name"`
	Phone       FlexString `json:"phone"`
	TokenNumber FlexString `json:"token_number"`
	Status      string     `json:"status"`
	CreatedAt   Timestamp  `json:"created_at"`
}

func (p Passenger) StatusValue() string {
	return p.Status
}

func (p Passenger) CreatedTime() (time.Time, bool) {
	return p.CreatedAt.Time, p.CreatedAt.Valid
}

type ReportRow struct {
	TokenNumber      FlexString `json:"token_number"`
	VehicleNumber    string     `json:"vehicle_number"`
	PassengerCount   FlexInt    `json:"passenger_count"`
	PassengersFilled FlexInt    `json:"passengers_filled"`
	Status           string     `json:"status"`
	QueueNumber      FlexString `json:"queue_number,omitempty"`
	QueueStatus      string     `json:"queue_status,omitempty"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        Timestamp  `json:"created_at"`
}

func (r ReportRow) StatusValue() string {
	return r.Status
}

func (r ReportRow) CreatedTime() (time.Time, bool) {
	return r.CreatedAt.Time, r.CreatedAt.Valid
}

type DashboardStats struct {
	Today TodayStats `json:"today"`
	Total TotalStats `json:"total"`
}

type TodayStats struct {
	TodayTokens            FlexInt   `json:"today_tokens"`
	TodayPassengers        FlexInt   `json:"today_passengers"`
	TodayQueueEntries      FlexInt   `json:"today_queue_entries"`
	TodayCompleted         FlexInt   `json:"today_completed"`
	TodayTokensTrend       FlexFloat `json:"today_tokens_trend"`
	TodayPassengersTrend   FlexFloat `json:"today_passengers_trend"`
	TodayQueueEntriesTrend FlexFloat `json:"today_queue_entries_trend"`
	TodayCompletedTrend    FlexFloat `json:"today_completed_trend"`
}

type TotalStats struct {
	TotalVehicles     FlexInt `json:"total_vehicles"`
	TotalTokens       FlexInt `json:"total_tokens"`
	TotalPassengers   FlexInt `json:"total_passengers"`
	TotalQueueEntries FlexInt `json:"total_queue_entries"`
}

type HourlyStat struct {
	Hour       FlexString `json:"hour"`
	Tokens     FlexInt    `json:"tokens"`
	Passengers FlexInt    `json:"passengers"`
}

type User struct {
	ID       FlexString `json:"id,omitempty"`
	Username string     `json:"username,omitempty"`
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email,omitempty"`
	Role     string     `json:"role,omitempty"`
}

const RoleAdmin = "admin"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// ReportFilters are the optional criteria of the reports view. Empty values
// are left out of the outgoing query.
type ReportFilters struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	VehicleNumber string `json:"vehicle_number"`
	TokenNumber   string `json:"token_number"`
}

const DateLayout = "2006-01-02"

func (f ReportFilters) Query() url.Values {
	values := url.Values{}
	add := func(key, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			values.Set(key, value)
		}
	}
	add("start_date", f.StartDate)
	add("end_date", f.EndDate)
	add("vehicle_number", f.VehicleNumber)
	add("token_number", f.TokenNumber)
	return values
}

func (f ReportFilters) IsZero() bool {
	return len(f.Query()) == 0
}

func (f ReportFilters) Validate() error {
	var start, end time.Time
	if raw := strings.TrimSpace(f.StartDate); raw != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return ErrInvalidStartDate
		}
		start = parsed
	}
	if raw := strings.TrimSpace(f.EndDate); raw != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return ErrInvalidEndDate
		}
		end = parsed
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

func FiltersFromQuery(values url.Values) ReportFilters {
	return ReportFilters{
		StartDate:     strings.TrimSpace(values.Get("start_date")),
		EndDate:       strings.TrimSpace(values.Get("end_date")),
		VehicleNumber: strings.TrimSpace(values.Get("vehicle_number")),
		TokenNumber:   strings.TrimSpace(values.Get("token_number")),
	}
}
