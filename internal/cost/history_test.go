// internal/cost/history_test.go
package cost

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "rag-workbench/internal/common/errors"
)

func testReport() *Report {
	return &Report{
		WindowStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Models: []ModelUsage{
			{ModelID: haiku, InputTokens: 1000, OutputTokens: 100, CostUSD: 0.000375},
			{ModelID: "amazon.titan-embed-text-v2:0", InputTokens: 5000, OutputTokens: 0, CostUSD: 0.0001},
		},
	}
}

func TestHistoryRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	report := testReport()

	mock.ExpectBegin()
	for _, m := range report.Models {
		mock.ExpectExec("INSERT INTO cost_reports").
			WithArgs(report.WindowStart, report.WindowEnd, m.ModelID, m.InputTokens, m.OutputTokens, m.CostUSD).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewHistory(db).Record(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRecordRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cost_reports").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = NewHistory(db).Record(context.Background(), testReport())

	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeHistoryFailed, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"model_id", "input_tokens", "output_tokens", "cost_usd"}).
		AddRow(haiku, 1000.0, 100.0, 0.000375).
		AddRow("amazon.titan-embed-text-v2:0", 5000.0, 0.0, 0.0001)

	mock.ExpectQuery("SELECT model_id, input_tokens, output_tokens, cost_usd").
		WithArgs(10).
		WillReturnRows(rows)

	usage, err := NewHistory(db).Recent(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, haiku, usage[0].ModelID)
	assert.InDelta(t, 0.000375, usage[0].CostUSD, 1e-12)
	assert.NoError(t, mock.ExpectationsWereMet())
}
