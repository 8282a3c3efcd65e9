package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexString decodes from a JSON string or number. The backend is not
// consistent about identifiers: token ids and numbers arrive as both.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = FlexString(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		*s = ""
		return nil
	}
	*s = FlexString(number.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexInt decodes from a JSON number or a numeric string. Anything else
// decodes as zero.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	value, _ := parseFlexFloat(data)
	*n = FlexInt(value)
	return nil
}

func (n FlexInt) Int() int {
	return int(n)
}

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	value, _ := parseFlexFloat(data)
	*f = FlexFloat(value)
	return nil
}

func parseFlexFloat(data []byte) (float64, bool) {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a created_at value that tolerates null and unparseable input.
// Valid is false when the value was absent or could not be read.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		// Layouts without a zone are wall-clock times in the local zone.
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			*t = Timestamp{Time: parsed, Valid: true}
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
