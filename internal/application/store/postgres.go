package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"certform/internal/application/models"
	form "certform/internal/form/models"
	id "certform/pkg/domain"
	"certform/pkg/platform/sentinel"
)

// Postgres implements Store over pgx. Answers and consignments are JSONB
// documents on the application row; the aggregate is always read and written
// whole.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed application store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is applied by migrations; kept here as the reference DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
	id               UUID        PRIMARY KEY,
	applicant        TEXT        NOT NULL,
	application_ref  JSONB       NOT NULL,
	certificate_ref  JSONB       NOT NULL,
	status           TEXT        NOT NULL,
	submitted_at     TIMESTAMPTZ,
	items            JSONB       NOT NULL DEFAULT '[]',
	consignments     JSONB       NOT NULL DEFAULT '[]',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
)`

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	applicationRef, certificateRef, items, consignments, err := marshalAggregate(app)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO applications
			(id, applicant, application_ref, certificate_ref, status, submitted_at, items, consignments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(app.ID), app.Applicant, applicationRef, certificateRef,
		app.Status, app.SubmittedAt, items, consignments, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, applicant, application_ref, certificate_ref, status, submitted_at, items, consignments, created_at, updated_at
		FROM applications
		WHERE id = $1`,
		uuid.UUID(appID),
	)

	var (
		app            models.Application
		rawID          uuid.UUID
		applicationRef []byte
		certificateRef []byte
		items          []byte
		consignments   []byte
	)
	err := row.Scan(&rawID, &app.Applicant, &applicationRef, &certificateRef,
		&app.Status, &app.SubmittedAt, &items, &consignments, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}

	app.ID = id.ApplicationID(rawID)
	if err := json.Unmarshal(applicationRef, &app.ApplicationRef); err != nil {
		return nil, fmt.Errorf("unmarshal application ref: %w", err)
	}
	if err := json.Unmarshal(certificateRef, &app.CertificateRef); err != nil {
		return nil, fmt.Errorf("unmarshal certificate ref: %w", err)
	}
	if err := json.Unmarshal(items, &app.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(consignments, &app.Consignments); err != nil {
		return nil, fmt.Errorf("unmarshal consignments: %w", err)
	}
	return &app, nil
}

func (s *Postgres) Update(ctx context.Context, app *models.Application) error {
	applicationRef, certificateRef, items, consignments, err := marshalAggregate(app)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE applications
		SET applicant = $2, application_ref = $3, certificate_ref = $4, status = $5,
			submitted_at = $6, items = $7, consignments = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(app.ID), app.Applicant, applicationRef, certificateRef,
		app.Status, app.SubmittedAt, items, consignments, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func marshalAggregate(app *models.Application) (applicationRef, certificateRef, items, consignments []byte, err error) {
	if applicationRef, err = json.Marshal(app.ApplicationRef); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal application ref: %w", err)
	}
	if certificateRef, err = json.Marshal(app.CertificateRef); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal certificate ref: %w", err)
	}
	if app.Items == nil {
		app.Items = []form.ResponseItem{}
	}
	if items, err = json.Marshal(app.Items); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if app.Consignments == nil {
		app.Consignments = []form.Consignment{}
	}
	if consignments, err = json.Marshal(app.Consignments); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal consignments: %w", err)
	}
	return applicationRef, certificateRef, items, consignments, nil
}
