package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"filedrop/internal/model"
	"filedrop/internal/repository"
)

const uniqueViolation = "23505"

// ContentPostgres is a PostgreSQL implementation of repository.ContentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ContentPostgres struct {
	db *sql.DB
}

// NewContentPostgres creates a new ContentPostgres repository.
func NewContentPostgres(db *sql.DB) *ContentPostgres {
	return &ContentPostgres{db: db}
}

var _ repository.ContentRepository = (*ContentPostgres)(nil)

const contentColumns = `id, filename, original_filename, storage_path, preview_path, directory, size, extension, content_type, expires_at, user_id, created_at`

const sumActiveQuery = `
	SELECT COALESCE(SUM(size), 0)
	FROM contents
	WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
`

// CreateWithinQuota serializes the active-size sum and the insert for one user
// in a single transaction. pg_advisory_xact_lock keyed by the user id blocks
// a second conflicting writer until the first commits or rolls back, so both
// can never observe the same pre-insert sum.
func (r *ContentPostgres) CreateWithinQuota(ctx context.Context, c *model.Content, quota int64, now time.Time) (*model.Content, repository.QuotaDecision, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, repository.QuotaDecision{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, c.UserID); err != nil {
		return nil, repository.QuotaDecision{}, fmt.Errorf("acquire user lock: %w", err)
	}

	var usage int64
	if err := tx.QueryRowContext(ctx, sumActiveQuery, c.UserID, now).Scan(&usage); err != nil {
		return nil, repository.QuotaDecision{}, fmt.Errorf("sum active size: %w", err)
	}

	dec := repository.QuotaDecision{Usage: usage, Limit: quota}
	if usage+c.Size > quota {
		// Rejected: the deferred rollback undoes the transaction and no
		// record is created.
		return nil, dec, nil
	}
	dec.Admitted = true

	const q = `
		INSERT INTO contents (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + contentColumns + `
	`
	row := tx.QueryRowContext(ctx, q,
		c.ID,
		c.Filename,
		c.OriginalFilename,
		c.StoragePath,
		nullString(c.PreviewPath),
		nullString(c.Directory),
		c.Size,
		c.Extension,
		c.ContentType,
		nullTime(c.ExpiresAt),
		c.UserID,
		c.CreatedAt,
	)
	out, err := scanContent(row)
	if err != nil {
		return nil, repository.QuotaDecision{}, fmt.Errorf("insert content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, repository.QuotaDecision{}, fmt.Errorf("commit: %w", err)
	}
	return out, dec, nil
}

// SumActiveSize sums the user's non-expired content sizes outside any
// transaction. Callers must treat the result as advisory.
func (r *ContentPostgres) SumActiveSize(ctx context.Context, userID string, now time.Time) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, sumActiveQuery, userID, now).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FindByID fetches a single content record by its ID.
func (r *ContentPostgres) FindByID(ctx context.Context, id string) (*model.Content, error) {
	q := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`
	return scanContent(r.db.QueryRowContext(ctx, q, id))
}

// Exists reports whether a content id is taken.
func (r *ContentPostgres) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM contents WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// StoragePathExists reports whether any content references the blob path.
func (r *ContentPostgres) StoragePathExists(ctx context.Context, path string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM contents WHERE storage_path = $1 OR preview_path = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, path).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindBySlug resolves a slug to its content record.
func (r *ContentPostgres) FindBySlug(ctx context.Context, slug string) (*model.Content, error) {
	q := `
		SELECT ` + prefixColumns("c") + `
		FROM contents c
		JOIN slugs s ON s.content_id = c.id
		WHERE s.slug = $1
	`
	return scanContent(r.db.QueryRowContext(ctx, q, slug))
}

// ListByUser returns a user's content using LIMIT/OFFSET pagination and a total count.
func (r *ContentPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Content], error) {
	const qCount = `SELECT COUNT(*) FROM contents WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Content]{Items: items, Total: total}, nil
}

// Update persists filename and expiry changes.
func (r *ContentPostgres) Update(ctx context.Context, c *model.Content) error {
	const q = `UPDATE contents SET filename = $2, expires_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Filename, nullTime(c.ExpiresAt))
	return err
}

// Delete removes a content row by ID. Slug rows cascade via the foreign key.
func (r *ContentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM contents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// FindExpired returns every content record whose expiry has passed.
func (r *ContentPostgres) FindExpired(ctx context.Context, now time.Time) ([]model.Content, error) {
	q := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// CreateSlug inserts a slug row, translating a unique violation into
// repository.ErrSlugExists so the caller can report a slug race.
func (r *ContentPostgres) CreateSlug(ctx context.Context, s *model.Slug) error {
	const q = `INSERT INTO slugs (id, slug, content_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.Slug, s.ContentID, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrSlugExists
		}
		return err
	}
	return nil
}

// FindSlugRecord fetches a slug row by its normalized slug string.
func (r *ContentPostgres) FindSlugRecord(ctx context.Context, slug string) (*model.Slug, error) {
	const q = `SELECT id, slug, content_id, created_at FROM slugs WHERE slug = $1`
	var s model.Slug
	err := r.db.QueryRowContext(ctx, q, slug).Scan(&s.ID, &s.Slug, &s.ContentID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSlug removes a slug row by its slug string.
func (r *ContentPostgres) DeleteSlug(ctx context.Context, slug string) error {
	const q = `DELETE FROM slugs WHERE slug = $1`
	_, err := r.db.ExecContext(ctx, q, slug)
	return err
}

// FindDirectory looks up a registered upload directory by name.
func (r *ContentPostgres) FindDirectory(ctx context.Context, name string) (*model.Directory, error) {
	const q = `SELECT id, name FROM directories WHERE name = $1`
	var d model.Directory
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&d.ID, &d.Name); err != nil {
		return nil, err
	}
	return &d, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*model.Content, error) {
	var (
		c         model.Content
		preview   sql.NullString
		directory sql.NullString
		expiresAt sql.NullTime
	)
	if err := row.Scan(
		&c.ID,
		&c.Filename,
		&c.OriginalFilename,
		&c.StoragePath,
		&preview,
		&directory,
		&c.Size,
		&c.Extension,
		&c.ContentType,
		&expiresAt,
		&c.UserID,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.PreviewPath = preview.String
	c.Directory = directory.String
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func prefixColumns(alias string) string {
	return alias + `.id, ` + alias + `.filename, ` + alias + `.original_filename, ` +
		alias + `.storage_path, ` + alias + `.preview_path, ` + alias + `.directory, ` +
		alias + `.size, ` + alias + `.extension, ` + alias + `.content_type, ` +
		alias + `.expires_at, ` + alias + `.user_id, ` + alias + `.created_at`
}
