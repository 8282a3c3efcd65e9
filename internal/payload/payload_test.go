package payload

import (
	"errors"
	"reflect"
	"testing"
)

type item struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

func TestCollectionEnvelopeAndArrayMatch(t *testing.T) {
	wrapped, err := Collection[item]([]byte(`{"tokens":[{"id":1,"status":"pending"},{"id":2,"status":"completed"}]}`), "tokens")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	bare, err := Collection[item]([]byte(`[{"id":1,"status":"pending"},{"id":2,"status":"completed"}]`), "tokens")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(wrapped, bare) {
		t.Fatalf("expected identical collections, got %v and %v", wrapped, bare)
	}
	if len(bare) != 2 || bare[1].ID != 2 {
		t.Fatalf("unexpected decode: %v", bare)
	}
}

func TestCollectionUnknownShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"null", `null`},
		{"string", `"nope"`},
		{"wrong key", `{"passengers":[{"id":1}]}`},
		{"key not array", `{"tokens":{"id":1}}`},
		{"element mismatch", `[{"id":"x"}]`},
	}
	for _, tt := range cases {
		got, err := Collection[item]([]byte(tt.raw), "tokens")
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty non-nil slice, got %v", tt.name, got)
		}
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("%s: expected ShapeError, got %v", tt.name, err)
		}
	}
}

func TestCollectionFirstMatchingKeyWins(t *testing.T) {
	got, err := Collection[item]([]byte(`{"recent_tokens":[{"id":3}],"tokens":[{"id":4}]}`), "recent_tokens", "tokens")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected recent_tokens to win, got %v", got)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		raw  string
		want Shape
	}{
		{`[]`, ShapeArray},
		{` {"tokens": []}`, ShapeEnvelope},
		{`{"message":"ok"}`, ShapeObject},
		{`42`, ShapeUnknown},
	}
	for _, tt := range cases {
		if got, _ := Detect([]byte(tt.raw), "tokens"); got != tt.want {
			t.Fatalf("Detect(%q)=%v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestObject(t *testing.T) {
	got, ok := Object[item]([]byte(`{"token":{"id":7,"status":"completed"}}`), "token")
	if !ok || got.ID != 7 || got.Status != "completed" {
		t.Fatalf("expected wrapped token, got %v ok=%v", got, ok)
	}
	got, ok = Object[item]([]byte(`{"id":8,"status":"pending"}`), "token")
	if !ok || got.ID != 8 {
		t.Fatalf("expected bare token, got %v ok=%v", got, ok)
	}
	if _, ok := Object[item]([]byte(`[]`), "token"); ok {
		t.Fatalf("expected array to be rejected")
	}
}
