// Package normalize turns raw record-store and webhook rows into the uniform
// Lead and Advisor shapes. Each dual-shape field has exactly one decoder here.
// Nothing in this package panics or returns an error on malformed input.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexNumber handles JSON values that can be either string or number.
type FlexNumber float64

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexNumber(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexNumber(parsed)
		return nil
	}
	if isNull(data) {
		*f = 0
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexNumber", string(data))
}

// FlexString accepts strings, numbers and booleans.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if isNull(trimmed) {
		*f = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		*f = FlexString(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexString", string(data))
}

// FlexStrings accepts an array (kept in order) or a comma-joined string
// (split, trimmed, empties dropped).
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if isNull(trimmed) {
		*f = nil
		return nil
	}
	var items []FlexString
	if err := json.Unmarshal(trimmed, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, string(item))
		}
		*f = out
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		*f = SplitList(str)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexStrings", string(data))
}

// FlexBool accepts booleans, "true"/"false" strings and 0/1.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool(b)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		*f = FlexBool(parsed)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = num != 0
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexBool", string(data))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime accepts RFC 3339 timestamps, naive timestamps (read as UTC) and dates.
// Unparseable values decode to the zero time.
type FlexTime struct {
	time.Time
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var millis float64
		if json.Unmarshal(data, &millis) == nil && millis > 0 {
			f.Time = time.UnixMilli(int64(millis)).UTC()
		}
		return nil
	}
	f.Time = ParseTime(str)
	return nil
}

// ParseTime parses the timestamp shapes the record store and the webhook emit.
func ParseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SplitList splits a comma-joined string, trimming items and dropping empties.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
