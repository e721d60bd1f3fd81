package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"P", StatusPresent},
		{"present", StatusPresent},
		{"A", StatusAbsent},
		{"ABSENT", StatusAbsent},
		{" l ", StatusLate},
		{"Late", StatusLate},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStatus("EXCUSED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = ParseDate("2024-03-01T17:45:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseDate("01/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNewRecord_TruncatesToDay(t *testing.T) {
	r := NewRecord(uuid.New(), uuid.New(), time.Date(2024, 3, 1, 13, 5, 0, 0, time.UTC), StatusLate, " bus ")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "bus", r.Remarks)
}

func TestDedupe_LastEntryWins(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	out := Dedupe([]Entry{
		{StudentID: s1, Status: StatusPresent},
		{StudentID: s2, Status: StatusAbsent},
		{StudentID: s1, Status: StatusLate, Remarks: "late bus"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, s1, out[0].StudentID)
	assert.Equal(t, StatusLate, out[0].Status)
	assert.Equal(t, "late bus", out[0].Remarks)
	assert.Equal(t, s2, out[1].StudentID)
}

func TestNewStats(t *testing.T) {
	t.Run("empty history reports zero rate", func(t *testing.T) {
		s := NewStats(nil)
		assert.Equal(t, int64(0), s.Total)
		assert.Equal(t, 0.0, s.AttendanceRate)
	})

	t.Run("late counts toward the rate", func(t *testing.T) {
		s := NewStats(map[Status]int64{StatusPresent: 5, StatusAbsent: 2, StatusLate: 1})
		assert.Equal(t, int64(8), s.Total)
		assert.Equal(t, 75.0, s.AttendanceRate)
	})

	t.Run("single late day is full attendance", func(t *testing.T) {
		s := NewStats(map[Status]int64{StatusLate: 1})
		assert.Equal(t, Stats{Total: 1, Late: 1, AttendanceRate: 100}, s)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		s := NewStats(map[Status]int64{StatusPresent: 1, StatusAbsent: 2})
		assert.Equal(t, 33.33, s.AttendanceRate)
	})
}
