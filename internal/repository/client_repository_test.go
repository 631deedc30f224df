package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStatsOwnerScoped(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepo(db)

	mock.ExpectQuery("FROM clients WHERE user_id=").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "with_email"}).AddRow(2, 1))
	mock.ExpectQuery("JOIN services s ON s.id=c.service_id").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Haircut"))
	mock.ExpectQuery("FROM appointments a JOIN clients c").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	st, err := repo.Stats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalClients)
	assert.Equal(t, 1, st.ClientsWithEmail)
	require.NotNil(t, st.MostPopularService)
	assert.Equal(t, "Haircut", *st.MostPopularService)
	require.NotNil(t, st.AppointmentsPerClient)
	assert.InDelta(t, 2.0, *st.AppointmentsPerClient, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStatsEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepo(db)

	mock.ExpectQuery("FROM clients WHERE user_id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "with_email"}).AddRow(0, 0))

	st, err := repo.Stats(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalClients)
	assert.Nil(t, st.MostPopularService)
	assert.Nil(t, st.AppointmentsPerClient)
	assert.NoError(t, mock.ExpectationsWereMet())
}
