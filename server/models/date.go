package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DATE_LAYOUT = "2006-01-02"

// Accepted input formats, ISO first then the day-first form used by the web forms
var dateInputLayouts = []string{DATE_LAYOUT, "02/01/2006"}

// Date is a calendar date without a time of day. It's stored and
// serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses value in any of the accepted input layouts. Impossible
// dates such as 31/02/2000 are rejected.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateInputLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return Date{parsed}, nil
		}
	}

	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or DD/MM/YYYY", value)
}

func (d Date) String() string {
	return d.Format(DATE_LAYOUT)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %v", err)
	}

	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Value stores the zero date as NULL
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	}

	return fmt.Errorf("cannot scan %T into Date", value)
}

func (d *Date) scanString(value string) error {
	// Some drivers hand back full timestamps for date columns
	if len(value) > len(DATE_LAYOUT) {
		value = value[:len(DATE_LAYOUT)]
	}

	parsed, err := time.Parse(DATE_LAYOUT, value)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Date: %v", value, err)
	}

	d.Time = parsed
	return nil
}
