package filter

import (
	"reflect"
	"testing"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

func samplePassengers() []models.Passenger {
	return []models.Passenger{
		{ID: "1", Name: "Rajesh Kumar", Phone: "9876543210", TokenNumber: "T001", Status: models.StatusWaiting},
		{ID: "2", Name: "Priya Sharma", Phone: "9876543211", TokenNumber: "T002", Status: models.StatusInProgress},
		{ID: "3", Name: "Amit Patel", Phone: "9876543212", TokenNumber: "T003", Status: models.StatusCompleted},
		{ID: "4", TokenNumber: "1042"},
	}
}

func ids(items []models.Passenger) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID.String())
	}
	return out
}

func TestEmptyQueryReturnsEverythingInOrder(t *testing.T) {
	source := samplePassengers()
	got := Passengers(source, "")
	if !reflect.DeepEqual(got, source) {
		t.Fatalf("expected full collection, got %v", ids(got))
	}
	got[0].Name = "changed"
	if source[0].Name != "Rajesh Kumar" {
		t.Fatalf("expected source to be untouched")
	}
}

func TestPassengerMatching(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"priya", []string{"2"}},
		{"KUMAR", []string{"1"}},
		{"98765432", []string{"1", "2", "3"}},
		{"3212", []string{"3"}},
		{"T00", []string{"1", "2", "3"}},
		{"t00", []string{}},
		{"104", []string{"4"}},
		{"zzz", []string{}},
	}
	for _, tt := range cases {
		got := ids(Passengers(samplePassengers(), tt.query))
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("query %q: expected %v, got %v", tt.query, tt.want, got)
		}
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	for _, query := range []string{"", "a", "987", "T002", "sharma"} {
		once := Passengers(samplePassengers(), query)
		twice := Passengers(once, query)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("query %q: expected %v, got %v", query, ids(once), ids(twice))
		}
	}
}

func TestReportsAndTokens(t *testing.T) {
	rows := []models.ReportRow{
		{TokenNumber: "T010", VehicleNumber: "KA01AB1234", CreatedBy: "operator1"},
		{TokenNumber: "T011", VehicleNumber: "TN09ZZ0001"},
	}
	if got := Reports(rows, "ka01"); len(got) != 1 || got[0].TokenNumber != "T010" {
		t.Fatalf("expected vehicle match, got %v", got)
	}
	if got := Reports(rows, "OPERATOR"); len(got) != 1 {
		t.Fatalf("expected created_by match, got %v", got)
	}
	tokens := []models.Token{{TokenNumber: "T001", PassengerName: "Sunita Devi"}, {TokenNumber: "T002"}}
	if got := Tokens(tokens, "devi"); len(got) != 1 || got[0].TokenNumber != "T001" {
		t.Fatalf("expected name match, got %v", got)
	}
}
