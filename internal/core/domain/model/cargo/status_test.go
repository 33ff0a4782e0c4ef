package cargo_test

import (
	"testing"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "available", cargo.Available.String())
	assert.Equal(t, "assigned", cargo.Assigned.String())
	assert.Equal(t, "in_transit", cargo.InTransit.String())
	assert.Equal(t, "completed", cargo.Completed.String())
	assert.Equal(t, "unknown", cargo.Status(42).String())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []cargo.Status{cargo.Available, cargo.Assigned, cargo.InTransit, cargo.Completed} {
		parsed, err := cargo.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := cargo.ParseStatus("matched")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = cargo.ParseStatus("unknown")
	require.Error(t, err)
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    cargo.Status
		apply   func(cargo.Status) (cargo.Status, error)
		want    cargo.Status
		wantErr bool
	}{
		{"assign from available", cargo.Available, cargo.Status.Assign, cargo.Assigned, false},
		{"assign from assigned", cargo.Assigned, cargo.Status.Assign, cargo.Unknown, true},
		{"assign from completed", cargo.Completed, cargo.Status.Assign, cargo.Unknown, true},
		{"start from assigned", cargo.Assigned, cargo.Status.Start, cargo.InTransit, false},
		{"start from available", cargo.Available, cargo.Status.Start, cargo.Unknown, true},
		{"start from in transit", cargo.InTransit, cargo.Status.Start, cargo.Unknown, true},
		{"complete from in transit", cargo.InTransit, cargo.Status.Complete, cargo.Completed, false},
		{"complete from assigned", cargo.Assigned, cargo.Status.Complete, cargo.Unknown, true},
		{"complete from completed", cargo.Completed, cargo.Status.Complete, cargo.Unknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.apply(tt.from)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsActive(t *testing.T) {
	assert.False(t, cargo.Available.IsActive())
	assert.True(t, cargo.Assigned.IsActive())
	assert.True(t, cargo.InTransit.IsActive())
	assert.False(t, cargo.Completed.IsActive())
}

func TestUrgency(t *testing.T) {
	u, err := cargo.ParseUrgency("express")
	require.NoError(t, err)
	assert.Equal(t, cargo.Express, u)
	assert.Equal(t, "urgent", cargo.Urgent.String())

	_, err = cargo.ParseUrgency("same-day")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, cargo.UrgencyUnknown.Validate())
}
