package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

var (
	windowStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func TestListAlerts_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewPostgresAlertsRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{
		"alert_id", "title", "severity", "status", "category", "source", "false_positive", "created_at",
	}).
		AddRow("a1", "Malware detected", "CRITICAL", "NEW", "malware", "edr", false, windowEnd.Add(-time.Hour)).
		AddRow("a2", "Phishing email", "HIGH", "RESOLVED", "phishing", "mail-gw", true, windowEnd.Add(-2*time.Hour))

	mock.ExpectQuery(`SELECT(.|\s)*FROM security_alerts`).
		WithArgs(windowStart, windowEnd).
		WillReturnRows(rows)

	alerts, err := repo.ListAlerts(context.Background(), AlertFilter{Start: windowStart, End: windowEnd})

	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "a1", alerts[0].AlertID)
	assert.Equal(t, "CRITICAL", alerts[0].Severity)
	assert.False(t, alerts[0].FalsePositive)
	assert.True(t, alerts[1].FalsePositive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAlerts_SeverityAndStatusFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewPostgresAlertsRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{
		"alert_id", "title", "severity", "status", "category", "source", "false_positive", "created_at",
	})

	mock.ExpectQuery(`AND severity = ANY\(\$3\) AND status = ANY\(\$4\)`).
		WithArgs(windowStart, windowEnd, pq.Array([]string{"CRITICAL", "HIGH"}), pq.Array([]string{"NEW"})).
		WillReturnRows(rows)

	alerts, err := repo.ListAlerts(context.Background(), AlertFilter{
		Start:      windowStart,
		End:        windowEnd,
		Severities: []string{"CRITICAL", "HIGH"},
		Statuses:   []string{"NEW"},
	})

	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAlerts_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewPostgresAlertsRepository(db, zap.NewNop())

	mock.ExpectQuery(`FROM security_alerts`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListAlerts(context.Background(), AlertFilter{Start: windowStart, End: windowEnd})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query alerts")
	assert.NoError(t, mock.ExpectationsWereMet())
}
