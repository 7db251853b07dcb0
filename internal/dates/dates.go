// Package dates renders the mm/dd/yyyy dates the application's date widgets
// accept, including the CURRENTDATE+n expressions used in feature files.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// LeadingZeros renders 03/07/2024.
	LeadingZeros = "01/02/2006"
	// NoLeadingZeros renders 3/7/2024.
	NoLeadingZeros = "1/2/2006"

	currentDate = "CURRENTDATE"
)

// Helper resolves dates relative to its clock.
type Helper struct {
	now func() time.Time
}

// New returns a Helper on the local wall clock.
func New() *Helper {
	return &Helper{now: time.Now}
}

// NewAt returns a Helper whose clock is fixed by now. Tests use it to pin today.
func NewAt(now func() time.Time) *Helper {
	return &Helper{now: now}
}

// Today renders the current date in layout.
func (h *Helper) Today(layout string) string {
	return h.now().Format(layout)
}

// Resolve evaluates expr, which is either CURRENTDATE or CURRENTDATE followed
// by a signed day offset such as CURRENTDATE+3 or CURRENTDATE-1. Offsets roll
// over months and years. Any other input is returned unchanged, so literal
// dates in a feature file pass straight through.
func (h *Helper) Resolve(expr, layout string) (string, error) {
	trimmed := strings.ToUpper(strings.ReplaceAll(expr, " ", ""))
	if !strings.HasPrefix(trimmed, currentDate) {
		return expr, nil
	}
	days, err := offset(strings.TrimPrefix(trimmed, currentDate))
	if err != nil {
		return "", fmt.Errorf("invalid date expression %q: %w", expr, err)
	}
	return h.now().AddDate(0, 0, days).Format(layout), nil
}

func offset(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if s[0] != '+' && s[0] != '-' {
		return 0, fmt.Errorf("expected + or - after %s", currentDate)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("day offset %q is not a number", s)
	}
	return n, nil
}
