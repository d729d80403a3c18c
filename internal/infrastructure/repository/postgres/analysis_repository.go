package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS emails (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	extension TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	category TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	suggested_response TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emails_status ON emails(status);
CREATE INDEX IF NOT EXISTS idx_emails_created_at ON emails(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, doc *domain.EmailDocument) error {
	const query = `
INSERT INTO emails (id, filename, extension, storage_path, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Filename, doc.Extension, doc.StoragePath, string(doc.Status), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert email: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.EmailDocument, error) {
	const query = `
SELECT id, filename, extension, storage_path, category, confidence, suggested_response, status, error_message, created_at, updated_at
FROM emails WHERE id = $1`

	var (
		doc       domain.EmailDocument
		category  sql.NullString
		response  sql.NullString
		errMsg    sql.NullString
		statusRaw string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Filename, &doc.Extension, &doc.StoragePath,
		&category, &doc.Confidence, &response, &statusRaw, &errMsg,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrEmailNotFound, "fetch email", err)
	}
	if err != nil {
		return nil, fmt.Errorf("query email: %w", err)
	}

	doc.Category = domain.Category(category.String)
	doc.SuggestedResponse = response.String
	doc.Status = domain.EmailStatus(statusRaw)
	doc.Error = errMsg.String
	return &doc, nil
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id string, status domain.EmailStatus, errMessage string) error {
	const query = `
UPDATE emails SET status = $2, error_message = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update email status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update email status rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrEmailNotFound, "update email status", sql.ErrNoRows)
	}
	return nil
}

func (r *AnalysisRepository) SaveResult(ctx context.Context, id string, result domain.AnalysisResult) error {
	const query = `
UPDATE emails SET category = $2, confidence = $3, suggested_response = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		id, string(result.Classification), result.Confidence, result.SuggestedResponse, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save analysis result rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrEmailNotFound, "save analysis result", sql.ErrNoRows)
	}
	return nil
}

func (r *AnalysisRepository) ListCompleted(ctx context.Context, limit int) ([]domain.EmailDocument, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
SELECT id, filename, extension, storage_path, category, confidence, suggested_response, status, error_message, created_at, updated_at
FROM emails WHERE status = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, string(domain.StatusReady), limit)
	if err != nil {
		return nil, fmt.Errorf("list completed emails: %w", err)
	}
	defer rows.Close()

	var docs []domain.EmailDocument
	for rows.Next() {
		var (
			doc       domain.EmailDocument
			category  sql.NullString
			response  sql.NullString
			errMsg    sql.NullString
			statusRaw string
		)
		if err := rows.Scan(
			&doc.ID, &doc.Filename, &doc.Extension, &doc.StoragePath,
			&category, &doc.Confidence, &response, &statusRaw, &errMsg,
			&doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan email row: %w", err)
		}
		doc.Category = domain.Category(category.String)
		doc.SuggestedResponse = response.String
		doc.Status = domain.EmailStatus(statusRaw)
		doc.Error = errMsg.String
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email rows: %w", err)
	}
	return docs, nil
}
