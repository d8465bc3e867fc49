package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

const schema = `
	CREATE TABLE IF NOT EXISTS investigation_reports (
		id                 TEXT PRIMARY KEY,
		subject_handle     TEXT NOT NULL,
		investigation_time TIMESTAMPTZ NOT NULL,
		report             JSONB NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_investigation_reports_handle
		ON investigation_reports (subject_handle, investigation_time DESC);
`

// ReportRepository stores finished reports as JSON documents keyed by investigation id.
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewReportRepository(postgres *PostgresService, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     postgres.GetDB(),
		logger: util.OrNop(logger),
	}
}

func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.NewStoreError("failed to create report schema", "migrate", err)
	}
	return nil
}

// Save upserts a report. Re-saving the same investigation id replaces the document.
func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return errors.NewStoreError("failed to encode report", "save", err)
	}

	query := `
		INSERT INTO investigation_reports (id, subject_handle, investigation_time, report)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET report = EXCLUDED.report,
		    investigation_time = EXCLUDED.investigation_time
	`
	handle := util.NormalizeHandle(report.Subject.Handle)
	if _, err := r.db.ExecContext(ctx, query, report.InvestigationID, handle, report.InvestigationTime, data); err != nil {
		return errors.NewStoreError("failed to save report", "save", err)
	}

	r.logger.Debug("Report saved",
		zap.String("id", report.InvestigationID),
		zap.String("handle", handle))
	return nil
}

// Latest returns the most recent report for a handle, or nil when none is stored.
func (r *ReportRepository) Latest(ctx context.Context, handle string) (*domain.Report, error) {
	query := `
		SELECT report
		FROM investigation_reports
		WHERE subject_handle = $1
		ORDER BY investigation_time DESC
		LIMIT 1
	`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, util.NormalizeHandle(handle)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("failed to load report", "latest", err)
	}

	return decodeReport(data)
}

func decodeReport(data []byte) (*domain.Report, error) {
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.NewStoreError("failed to decode stored report", "decode", err)
	}
	return &report, nil
}
