package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// SQLResultRepo implements ResultRepo on SQLite.
type SQLResultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var resultSelectColumns = []string{
	"id", "sequence", "timestamp", "email", "session_id",
	"total_score", "max_score", "percentage", "question_count",
}

// SaveResult stores res and fills in its ID, Sequence and, when unset,
// Timestamp. Email is optional; anonymous results are kept but never listed.
func (r *SQLResultRepo) SaveResult(ctx context.Context, res *InterviewResult) error {
	res.Email = strings.TrimSpace(res.Email)

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}
	res.Timestamp = res.Timestamp.UTC()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(resultsTable).
		Columns(resultSelectColumns[1:]...).
		Values(
			seqNum,
			res.Timestamp,
			res.Email,
			res.SessionID,
			res.TotalScore,
			res.MaxScore,
			res.Percentage,
			res.QuestionCount,
		).
		Query()

	out, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save interview result: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return fmt.Errorf("interview result id: %w", err)
	}

	res.ID = int(id)
	res.Sequence = seqNum
	return nil
}

// ResultsByEmail lists results for email, newest first.
func (r *SQLResultRepo) ResultsByEmail(ctx context.Context, email string, limit int) ([]InterviewResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	t := entsql.Table(resultsTable)
	sel := entsql.Dialect(dialect.SQLite).
		Select(qualified(t, resultSelectColumns)...).
		From(t).
		Where(entsql.EQ(t.C("email"), email)).
		OrderBy(entsql.Desc(t.C("timestamp")), entsql.Desc(t.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interview results: %w", err)
	}
	defer rows.Close()

	var out []InterviewResult
	for rows.Next() {
		var res InterviewResult
		if err := rows.Scan(
			&res.ID, &res.Sequence, &res.Timestamp, &res.Email, &res.SessionID,
			&res.TotalScore, &res.MaxScore, &res.Percentage, &res.QuestionCount,
		); err != nil {
			return nil, fmt.Errorf("scan interview result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

var _ ResultRepo = (*SQLResultRepo)(nil)
