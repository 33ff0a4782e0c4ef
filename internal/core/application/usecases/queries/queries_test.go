package queries_test

import (
	"testing"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetVisibleCargosQuery(t *testing.T) {
	driverID := kernel.NewUUID()
	rejected := kernel.NewUUID()

	q, err := queries.NewGetVisibleCargosQuery(driverID, []kernel.UUID{rejected})

	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.Equal(t, driverID, q.DriverID())
	assert.True(t, q.IsExcluded(rejected))
	assert.False(t, q.IsExcluded(kernel.NewUUID()))
}

func TestQueries_RequireDriverID(t *testing.T) {
	_, err := queries.NewGetVisibleCargosQuery(kernel.UUID{}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetActiveDeliveryQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetDriverProfileQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetDeliveryHistoryQuery(kernel.UUID{}, 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestQueries_ZeroValueFailsValidation(t *testing.T) {
	require.ErrorIs(t, queries.GetVisibleCargosQuery{}.Validate(), queries.ErrGetVisibleCargosQueryIsNotConstructed)
	require.ErrorIs(t, queries.GetActiveDeliveryQuery{}.Validate(), queries.ErrGetActiveDeliveryQueryIsNotConstructed)
	require.ErrorIs(t, queries.GetDriverProfileQuery{}.Validate(), queries.ErrGetDriverProfileQueryIsNotConstructed)
	require.ErrorIs(t, queries.GetDeliveryHistoryQuery{}.Validate(), queries.ErrGetDeliveryHistoryQueryIsNotConstructed)
}

func TestNewGetDeliveryHistoryQuery_Limit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		want    int
		wantErr bool
	}{
		{name: "default", limit: 0, want: queries.DefaultHistoryLimit},
		{name: "explicit", limit: 5, want: 5},
		{name: "max", limit: queries.MaxHistoryLimit, want: queries.MaxHistoryLimit},
		{name: "negative", limit: -1, wantErr: true},
		{name: "too large", limit: queries.MaxHistoryLimit + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := queries.NewGetDeliveryHistoryQuery(kernel.NewUUID(), tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Limit())
		})
	}
}
