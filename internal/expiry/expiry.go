package expiry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// validityYears is how far ahead a random expiry may land, counting the current year.
const validityYears = 5

var ErrInvalid = errors.New("expiry must be MM|YY with month 01..12")

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

// Expiry is a card expiry month. Year holds the full four-digit year.
type Expiry struct {
	Month int
	Year  int
}

// Parse accepts exactly two 2-digit groups joined by "|", e.g. "07|29".
func Parse(s string) (Expiry, error) {
	if len(s) != 5 || s[2] != '|' {
		return Expiry{}, ErrInvalid
	}
	return fromParts(s[:2], s[3:])
}

// FromParts builds an Expiry from separate MM and YY fields.
func FromParts(mm, yy string) (Expiry, error) {
	if len(mm) != 2 || len(yy) != 2 {
		return Expiry{}, ErrInvalid
	}
	return fromParts(mm, yy)
}

func fromParts(mm, yy string) (Expiry, error) {
	for _, part := range []string{mm, yy} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return Expiry{}, ErrInvalid
			}
		}
	}
	m, _ := strconv.Atoi(mm)
	y, _ := strconv.Atoi(yy)
	if m < 1 || m > 12 {
		return Expiry{}, fmt.Errorf("month %s: %w", mm, ErrInvalid)
	}
	return Expiry{Month: m, Year: 2000 + y}, nil
}

// Normalize turns loosely typed fields ("7", "2029") into an Expiry.
func Normalize(mm, yy string) (Expiry, error) {
	mm = strings.TrimSpace(mm)
	yy = strings.TrimSpace(yy)
	if len(mm) == 1 {
		mm = "0" + mm
	}
	if len(yy) == 4 {
		yy = yy[2:]
	}
	return FromParts(mm, yy)
}

// String returns MM|YY.
func (e Expiry) String() string {
	return fmt.Sprintf("%02d|%02d", e.Month, e.Year%100)
}

// Random picks a year in [now.Year, now.Year+4]; if it is the current year the
// month is drawn from [now.Month, 12], otherwise from [1, 12]. Year and month
// are read in now's location.
func Random(src Source, now time.Time) Expiry {
	year := now.Year() + src.Intn(validityYears)
	var month int
	if year == now.Year() {
		cur := int(now.Month())
		month = cur + src.Intn(13-cur)
	} else {
		month = 1 + src.Intn(12)
	}
	return Expiry{Month: month, Year: year}
}

// endOfMonth returns the last instant of the expiry month in loc.
func (e Expiry) endOfMonth(loc *time.Location) time.Time {
	firstNext := time.Date(e.Year, time.Month(e.Month), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond)
}

// IsExpired reports whether at is past the end of the expiry month, both read in at's location.
func (e Expiry) IsExpired(at time.Time) bool {
	return at.After(e.endOfMonth(at.Location()))
}
