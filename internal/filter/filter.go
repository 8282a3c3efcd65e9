// Package filter derives a filtered view of a collection from free-text input
// without touching the source collection.
package filter

import (
	"strings"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

type Mode int

const (
	// Fold matches a case-insensitive substring.
	Fold Mode = iota
	// Exact matches a substring of the stringified value as-is.
	Exact
)

type Field struct {
	Value   string
	Present bool
	Mode    Mode
}

func Text(value string) Field {
	return Field{Value: value, Present: value != "", Mode: Fold}
}

func Ident(value string) Field {
	return Field{Value: value, Present: value != "", Mode: Exact}
}

func (f Field) matches(query, folded string) bool {
	if !f.Present {
		return false
	}
	if f.Mode == Fold {
		return strings.Contains(strings.ToLower(f.Value), folded)
	}
	return strings.Contains(f.Value, query)
}

type FieldsFunc[T any] func(T) []Field

// Apply keeps the items for which any searchable field contains query. The
// returned slice is always a fresh copy in source order.
func Apply[T any](items []T, query string, fields FieldsFunc[T]) []T {
	out := make([]T, 0, len(items))
	if query == "" {
		return append(out, items...)
	}
	folded := strings.ToLower(query)
	for _, item := range items {
		for _, field := range fields(item) {
			if field.matches(query, folded) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func PassengerFields(p models.Passenger) []Field {
	return []Field{
		Text(p.Name),
		Ident(p.Phone.String()),
		Ident(p.TokenNumber.String()),
	}
}

func TokenFields(t models.Token) []Field {
	return []Field{
		Ident(t.TokenNumber.String()),
		Text(t.PassengerName),
		Text(t.VehicleNumber),
	}
}

func ReportFields(r models.ReportRow) []Field {
	return []Field{
		Ident(r.TokenNumber.String()),
		Text(r.VehicleNumber),
		Text(r.CreatedBy),
		Text(r.Status),
	}
}

func Passengers(items []models.Passenger, query string) []models.Passenger {
	return Apply(items, query, PassengerFields)
}

func Tokens(items []models.Token, query string) []models.Token {
	return Apply(items, query, TokenFields)
}

func Reports(items []models.ReportRow, query string) []models.ReportRow {
	return Apply(items, query, ReportFields)
}
