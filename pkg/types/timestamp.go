package types

import (
	"fmt"
	"time"
)

// Timestamp сканирует время создания записи из разных драйверов
// lib/pq отдает time.Time, sqlite может отдать строку
type Timestamp struct {
	Time time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST", // time.Time.String(), так modernc.org/sqlite пишет time.Time
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Scan реализует sql.Scanner
func (ts *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case time.Time:
		ts.Time = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case int64:
		ts.Time = time.Unix(v, 0).UTC()
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into Timestamp", src)
	}
}

func (ts *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("types: unrecognized timestamp %q", s)
}
