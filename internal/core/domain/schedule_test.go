package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

func TestNewSchedule(t *testing.T) {
	t.Run("Success: Creates valid schedule with defaults", func(t *testing.T) {
		s, err := domain.NewSchedule("u1", "Workday", []int{1, 2, 3, 4, 5}, "09:00", "19:00", 4, nil)

		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "u1", s.UserID)
		assert.Equal(t, "Workday", s.Name)
		assert.True(t, s.IsActive, "new schedules start active")
		assert.Equal(t, 1, s.Version, "new schedules MUST start at Version 1 for Optimistic Locking")
		assert.Nil(t, s.DeletedAt)
		assert.WithinDuration(t, time.Now().UTC(), s.CreatedAt, 2*time.Second)
	})

	t.Run("Success: Weekdays are deduplicated and sorted", func(t *testing.T) {
		s, err := domain.NewSchedule("u1", "Gym", []int{5, 1, 3, 1, 5}, "09:00", "19:00", 4, nil)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 5}, s.DaysOfWeek)
	})

	t.Run("Error: Invalid UserID", func(t *testing.T) {
		_, err := domain.NewSchedule("", "Workday", []int{1}, "09:00", "19:00", 4, nil)
		assert.Equal(t, domain.ErrScheduleInvalidUserID, err)
	})
}

func TestSchedule_Validation(t *testing.T) {
	tests := []struct {
		name      string
		schedName string
		weekdays  []int
		start     string
		end       string
		numPings  int
		quiet     []domain.QuietPeriod
		wantErr   error
	}{
		{
			name:      "Success: Minimal valid schedule",
			schedName: "Water",
			weekdays:  []int{0},
			start:     "08:00",
			end:       "20:00",
			numPings:  1,
			wantErr:   nil,
		},
		{
			name:      "Success: Reversed window is legal (yields no pings)",
			schedName: "Night owl",
			weekdays:  []int{1},
			start:     "22:00",
			end:       "06:00",
			numPings:  4,
			wantErr:   nil,
		},
		{
			name:      "Error: Empty name",
			schedName: "   ",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrScheduleNameEmpty,
		},
		{
			name:      "Error: Name too long",
			schedName: strings.Repeat("x", 101),
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrScheduleNameTooLong,
		},
		{
			name:      "Error: Weekday out of range",
			schedName: "Water",
			weekdays:  []int{1, 7},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrInvalidWeekdays,
		},
		{
			name:      "Error: Negative weekday",
			schedName: "Water",
			weekdays:  []int{-1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrInvalidWeekdays,
		},
		{
			name:      "Error: Malformed start time",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "9:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrInvalidTimeFormat,
		},
		{
			name:      "Error: Hour out of range",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "24:00",
			end:       "19:00",
			numPings:  4,
			wantErr:   domain.ErrInvalidTimeFormat,
		},
		{
			name:      "Error: Zero pings",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  0,
			wantErr:   domain.ErrInvalidPingCount,
		},
		{
			name:      "Error: Too many pings",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  49,
			wantErr:   domain.ErrInvalidPingCount,
		},
		{
			name:      "Error: Malformed quiet period time",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			quiet:     []domain.QuietPeriod{{Start: "13", End: "14:00"}},
			wantErr:   domain.ErrInvalidTimeFormat,
		},
		{
			name:      "Error: Quiet period start after end",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			quiet:     []domain.QuietPeriod{{Start: "15:00", End: "14:00"}},
			wantErr:   domain.ErrInvalidQuietPeriod,
		},
		{
			name:      "Success: Zero-length quiet period",
			schedName: "Water",
			weekdays:  []int{1},
			start:     "09:00",
			end:       "19:00",
			numPings:  4,
			quiet:     []domain.QuietPeriod{{Start: "13:00", End: "13:00"}},
			wantErr:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewSchedule("u1", tt.schedName, tt.weekdays, tt.start, tt.end, tt.numPings, tt.quiet)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchedule_Update(t *testing.T) {
	s, err := domain.NewSchedule("u1", "Workday", []int{1, 2, 3}, "09:00", "19:00", 4, nil)
	require.NoError(t, err)

	t.Run("Success: Applies new configuration", func(t *testing.T) {
		err := s.Update("Weekend", []int{0, 6}, "10:00", "18:00", 6, []domain.QuietPeriod{{Start: "13:00", End: "14:00"}})

		require.NoError(t, err)
		assert.Equal(t, "Weekend", s.Name)
		assert.Equal(t, []int{0, 6}, s.DaysOfWeek)
		assert.Equal(t, 6, s.NumPings)
	})

	t.Run("Error: Invalid update leaves schedule unchanged", func(t *testing.T) {
		err := s.Update("", nil, "10:00", "18:00", 6, nil)

		assert.Equal(t, domain.ErrScheduleNameEmpty, err)
		assert.Equal(t, "Weekend", s.Name)
	})
}

func TestSchedule_ActivationAndRunsOn(t *testing.T) {
	s, err := domain.NewSchedule("u1", "Workday", []int{1, 3, 5}, "09:00", "19:00", 4, nil)
	require.NoError(t, err)

	assert.True(t, s.RunsOn(1))
	assert.True(t, s.RunsOn(5))
	assert.False(t, s.RunsOn(0))
	assert.False(t, s.RunsOn(6))

	s.Deactivate()
	assert.False(t, s.IsActive)

	s.Activate()
	assert.True(t, s.IsActive)
}
