package forecast

import (
	"fmt"
	"time"
)

// Period identifies a calendar month
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns the month containing t
func NewPeriod(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is an earlier month than o
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Valid reports whether the month is within January..December
func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December
}

// String formats the period as "YYYY-MM"
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label formats the period for display, e.g. "February 2024"
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}
