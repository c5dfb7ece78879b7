package datefix

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "rfc3339",
			raw:  "2024-03-01T10:00:00Z",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "iso space separated",
			raw:  "2024-03-01 10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "iso date only",
			raw:  "2024-03-01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day first with time",
			raw:  "01/03/2024 10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "day first date only",
			raw:  "15/07/2024",
			want: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month day two digit year",
			raw:  "03-01-24",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "slash iso variant",
			raw:  "2024/03/01 10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "dot separated",
			raw:  "01.03.2024 10:00:00",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "epoch seconds",
			raw:  "1709287200",
			want: time.Unix(1709287200, 0).UTC(),
		},
		{
			name: "surrounding whitespace",
			raw:  "  2024-03-01 10:00:00  ",
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Repair(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestRepairIrreparable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"garbage", "not-a-date"},
		{"implausible epoch", "12345"},
		{"epoch before 2000", "946684799"},
		{"epoch after 2099", strconv.FormatInt(epochMax, 10)},
		{"numeric with junk", "2024x0301"},
		{"ancient year", "0024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Repair(tt.raw)
			assert.ErrorIs(t, err, ErrIrreparable)
		})
	}
}

// Formatting a canonical instant with each supported template and
// re-parsing it must yield the original instant, regardless of template
// priority interactions.
func TestRepairRoundTrip(t *testing.T) {
	// Midnight so date-only templates lose nothing.
	canonical := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, layout := range DefaultLayouts {
		t.Run(layout, func(t *testing.T) {
			formatted := canonical.Format(layout)
			got, err := Repair(formatted)
			require.NoError(t, err, "formatted value %q", formatted)
			assert.True(t, canonical.Equal(got), "layout %s: want %v, got %v", layout, canonical, got)
		})
	}
}

func TestRepairWithCustomPriority(t *testing.T) {
	// A caller-supplied list restricted to one template accepts only it.
	layouts := []string{"2006-01-02"}

	_, err := RepairWith("01/03/2024", layouts)
	assert.ErrorIs(t, err, ErrIrreparable)

	got, err := RepairWith("2024-03-01", layouts)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestRepairDeterministicTieBreak(t *testing.T) {
	// 02/03/2024 is ambiguous; the day-first template is earlier in the
	// priority order and must win every time.
	for i := 0; i < 3; i++ {
		got, err := Repair("02/03/2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)
	}
}
