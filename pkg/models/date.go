package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateFormat 日历日期格式
const DateFormat = "2006-01-02"

// Date is a calendar date serialized as "YYYY-MM-DD" in JSON and SQL.
type Date time.Time

// Today returns the UTC calendar date of now.
func Today(now time.Time) Date {
	return dateOf(now.UTC())
}

// dateOf keeps the calendar date of t as seen in t's own location.
func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// MustParseDate parses a "YYYY-MM-DD" literal and panics on malformed input.
// Only used for seed data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t), nil
}

// Time 转换为time.Time
func (d Date) Time() time.Time {
	return time.Time(d)
}

// IsZero 判断是否为零值
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) String() string {
	return time.Time(d).Format(DateFormat)
}

// MarshalJSON 实现json.Marshaler接口
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		*d = Date{}
		return nil
	}
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return fmt.Errorf("invalid date %s", str)
	}
	parsed, err := ParseDate(str[1 : len(str)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan 实现sql.Scanner接口
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = dateOf(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// Value 实现driver.Valuer接口
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
