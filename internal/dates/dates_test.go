package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month, day int) *Helper {
	return NewAt(func() time.Time { return time.Date(year, month, day, 10, 30, 0, 0, time.Local) })
}

func TestToday(t *testing.T) {
	h := at(2024, time.March, 7)

	assert.Equal(t, "03/07/2024", h.Today(LeadingZeros))
	assert.Equal(t, "3/7/2024", h.Today(NoLeadingZeros))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		today  *Helper
		expr   string
		layout string
		want   string
	}{
		{"today", at(2024, time.March, 7), "CURRENTDATE", LeadingZeros, "03/07/2024"},
		{"next day", at(2024, time.March, 7), "CURRENTDATE+1", LeadingZeros, "03/08/2024"},
		{"no leading zeros", at(2024, time.March, 7), "CURRENTDATE+2", NoLeadingZeros, "3/9/2024"},
		{"month rollover", at(2024, time.January, 30), "CURRENTDATE+3", LeadingZeros, "02/02/2024"},
		{"leap day", at(2024, time.February, 28), "CURRENTDATE+1", LeadingZeros, "02/29/2024"},
		{"year rollover", at(2023, time.December, 31), "CURRENTDATE+1", NoLeadingZeros, "1/1/2024"},
		{"past", at(2024, time.March, 1), "CURRENTDATE-1", LeadingZeros, "02/29/2024"},
		{"spaces and case", at(2024, time.March, 7), " currentdate + 10 ", LeadingZeros, "03/17/2024"},
		{"literal passes through", at(2024, time.March, 7), "12/25/2024", LeadingZeros, "12/25/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.today.Resolve(tt.expr, tt.layout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	h := at(2024, time.March, 7)

	for _, expr := range []string{"CURRENTDATE*2", "CURRENTDATE+two", "CURRENTDATE+"} {
		_, err := h.Resolve(expr, LeadingZeros)
		require.Error(t, err, expr)
		assert.Contains(t, err.Error(), "invalid date expression")
	}
}
