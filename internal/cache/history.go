package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/bookdiff/internal/model"
)

// ComparisonRecord is the summary of one stored comparison.
type ComparisonRecord struct {
	// ID is the unique identifier of the comparison in the database.
	ID int64

	OldSource string
	NewSource string
	Algorithm string
	Threshold int

	// Timestamp is when the comparison was stored.
	Timestamp time.Time

	Summary model.Summary
}

// SaveComparison stores a finished comparison and returns its ID.
func (c *Cache) SaveComparison(ctx context.Context, cmp *model.Comparison) (int64, error) {
	if cmp.Report == nil {
		return 0, errors.New("comparison has no report")
	}

	reportJSON, err := json.Marshal(cmp.Report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(cmp.Report.Summary())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO comparisons (old_source, new_source, algorithm, threshold, summary_json, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := c.db.ExecContext(ctx, query,
		cmp.OldSource,
		cmp.NewSource,
		cmp.Algorithm,
		cmp.Threshold,
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save comparison: %w", err)
	}
	return res.LastInsertId()
}

// History returns up to limit stored comparisons, newest first.
// A limit of 0 or less returns all of them.
func (c *Cache) History(ctx context.Context, limit int) ([]ComparisonRecord, error) {
	query := `
	SELECT id, old_source, new_source, algorithm, threshold, timestamp, summary_json
	FROM comparisons
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison history: %w", err)
	}
	defer rows.Close()

	var records []ComparisonRecord
	for rows.Next() {
		var (
			rec         ComparisonRecord
			timestamp   string
			summaryJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.OldSource, &rec.NewSource, &rec.Algorithm, &rec.Threshold, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		rec.Timestamp = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			return nil, fmt.Errorf("failed to parse summary of comparison %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Comparison returns a stored comparison with its parameters and report.
// Fields that are not stored, such as the fingerprints, are left empty.
func (c *Cache) Comparison(ctx context.Context, id int64) (*model.Comparison, error) {
	var (
		cmp        model.Comparison
		timestamp  string
		reportJSON string
	)
	err := c.db.QueryRowContext(ctx, `
	SELECT old_source, new_source, algorithm, threshold, timestamp, report_json
	FROM comparisons WHERE id = ?
	`, id).Scan(&cmp.OldSource, &cmp.NewSource, &cmp.Algorithm, &cmp.Threshold, &timestamp, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}

	cmp.StartedAt = parseTimestamp(timestamp)
	cmp.Report = &model.DiffReport{}
	if err := json.Unmarshal([]byte(reportJSON), cmp.Report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &cmp, nil
}

// Report returns the stored report of a comparison.
func (c *Cache) Report(ctx context.Context, id int64) (*model.DiffReport, error) {
	cmp, err := c.Comparison(ctx, id)
	if err != nil {
		return nil, err
	}
	return cmp.Report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp, returning the zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
