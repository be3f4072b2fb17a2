package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/paragraph-titler/internal/model"
)

// ResultRepo provides data access to the saved_results table.  Every query
// is scoped to a user so one user's results are never visible to another.
// All timestamps are stored in UTC.
type ResultRepo struct {
    db *sql.DB
}

// NewResultRepo returns a new ResultRepo bound to the provided database.
func NewResultRepo(db *sql.DB) *ResultRepo { return &ResultRepo{db: db} }

// Save appends one generation outcome and returns the new row id.  The
// insert is a single statement and therefore atomic.  A foreign key
// failure (the owning user vanished between auth and save) maps to
// ErrForeignKey.
func (r *ResultRepo) Save(ctx context.Context, rec model.SavedResult) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO saved_results
         (user_id, paragraph, generated_title, status, confidence,
          processing_time_ms, character_count, word_count)
         VALUES (?,?,?,?,?,?,?,?)`,
        rec.UserID, rec.Paragraph, rec.Title, rec.Status, rec.Confidence,
        rec.ProcessingTimeMS, rec.CharacterCount, rec.WordCount)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1452") {
            return 0, ErrForeignKey
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// ListByUser returns a page of the user's results ordered newest first.
// An offset past the end yields an empty slice, not an error.
func (r *ResultRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.SavedResult, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT result_id, user_id, paragraph, generated_title, status, confidence,
                processing_time_ms, character_count, word_count, created_at
         FROM saved_results
         WHERE user_id = ?
         ORDER BY created_at DESC, result_id DESC
         LIMIT ? OFFSET ?`,
        userID, limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.SavedResult, 0, limit)
    for rows.Next() {
        var rec model.SavedResult
        if err := rows.Scan(
            &rec.ID, &rec.UserID, &rec.Paragraph, &rec.Title, &rec.Status,
            &rec.Confidence, &rec.ProcessingTimeMS, &rec.CharacterCount,
            &rec.WordCount, &rec.CreatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    return out, rows.Err()
}

// CountByUser returns the total number of results owned by the user.
func (r *ResultRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
    var total int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM saved_results WHERE user_id = ?`, userID).Scan(&total)
    return total, err
}

// DeleteByIDAndUser removes one result if it belongs to the given user.
// A result owned by someone else is indistinguishable from a missing one:
// both report sql.ErrNoRows, so the endpoint cannot be used to probe for
// other users' result ids.
func (r *ResultRepo) DeleteByIDAndUser(ctx context.Context, resultID, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM saved_results WHERE result_id = ? AND user_id = ?`,
        resultID, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
