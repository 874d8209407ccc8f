// internal/cost/history.go
package cost

import (
	"context"
	"database/sql"

	"rag-workbench/internal/common/errors"
)

// History persists priced usage rows so successive report runs can be
// compared.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

const insertUsage = `INSERT INTO cost_reports
	(window_start, window_end, model_id, input_tokens, output_tokens, cost_usd)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Record inserts one row per model in the report.
func (h *History) Record(ctx context.Context, report *Report) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeHistoryFailed, "begin cost history transaction", true, err)
	}

	for _, m := range report.Models {
		if _, err := tx.ExecContext(ctx, insertUsage,
			report.WindowStart, report.WindowEnd,
			m.ModelID, m.InputTokens, m.OutputTokens, m.CostUSD,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(errors.ErrCodeHistoryFailed, "insert cost history row", true, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryFailed, "commit cost history", true, err)
	}
	return nil
}

// Recent returns the latest priced rows, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]ModelUsage, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT model_id, input_tokens, output_tokens, cost_usd
		 FROM cost_reports ORDER BY window_end DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryFailed, "query cost history", true, err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.ModelID, &u.InputTokens, &u.OutputTokens, &u.CostUSD); err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryFailed, "scan cost history row", false, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
