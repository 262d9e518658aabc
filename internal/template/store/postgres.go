package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	form "certform/internal/form/models"
	"certform/internal/template/models"
	"certform/pkg/platform/sentinel"
)

// Postgres implements Store over pgx. The page tree is stored as one JSONB
// document per template version; templates are written whole and read whole,
// so there is nothing to join.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed template store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is applied by migrations; kept here as the reference DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS form_templates (
	family         TEXT        NOT NULL,
	name           TEXT        NOT NULL,
	version        INTEGER     NOT NULL,
	status         TEXT        NOT NULL,
	availability   TEXT        NOT NULL,
	access_code    TEXT        NOT NULL DEFAULT '',
	definition     JSONB       NOT NULL,
	template_files JSONB       NOT NULL DEFAULT '[]',
	populators     JSONB       NOT NULL DEFAULT '[]',
	multiples      JSONB,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (family, name, version)
)`

func (s *Postgres) Create(ctx context.Context, template *models.Template) error {
	definition, err := json.Marshal(template.Pages)
	if err != nil {
		return fmt.Errorf("marshal template pages: %w", err)
	}
	files, err := json.Marshal(template.TemplateFiles)
	if err != nil {
		return fmt.Errorf("marshal template files: %w", err)
	}
	populators, err := json.Marshal(template.Populators)
	if err != nil {
		return fmt.Errorf("marshal populators: %w", err)
	}
	var multiples []byte
	if template.Multiples != nil {
		if multiples, err = json.Marshal(template.Multiples); err != nil {
			return fmt.Errorf("marshal multiples config: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO form_templates
			(family, name, version, status, availability, access_code, definition, template_files, populators, multiples, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		template.Family, template.Name, template.Version, template.Status,
		template.Availability, template.AccessCode, definition, files, populators, multiples,
		template.CreatedAt, template.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, family form.TemplateFamily, name string, version int) (*models.Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT family, name, version, status, availability, access_code, definition, template_files, populators, multiples, created_at, updated_at
		FROM form_templates
		WHERE family = $1 AND name = $2 AND version = $3`,
		family, name, version,
	)
	return scanTemplate(row)
}

func (s *Postgres) FindLatestByStatus(ctx context.Context, family form.TemplateFamily, name string, status models.Status) (*models.Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT family, name, version, status, availability, access_code, definition, template_files, populators, multiples, created_at, updated_at
		FROM form_templates
		WHERE family = $1 AND name = $2 AND status = $3
		ORDER BY version DESC
		LIMIT 1`,
		family, name, status,
	)
	return scanTemplate(row)
}

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var (
		template   models.Template
		definition []byte
		files      []byte
		populators []byte
		multiples  []byte
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(
		&template.Family, &template.Name, &template.Version, &template.Status,
		&template.Availability, &template.AccessCode, &definition, &files,
		&populators, &multiples, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}

	if err := json.Unmarshal(definition, &template.Pages); err != nil {
		return nil, fmt.Errorf("unmarshal template pages: %w", err)
	}
	if err := json.Unmarshal(files, &template.TemplateFiles); err != nil {
		return nil, fmt.Errorf("unmarshal template files: %w", err)
	}
	if err := json.Unmarshal(populators, &template.Populators); err != nil {
		return nil, fmt.Errorf("unmarshal populators: %w", err)
	}
	if len(multiples) > 0 {
		template.Multiples = &models.Multiples{}
		if err := json.Unmarshal(multiples, template.Multiples); err != nil {
			return nil, fmt.Errorf("unmarshal multiples config: %w", err)
		}
	}
	template.CreatedAt = createdAt
	template.UpdatedAt = updatedAt
	return &template, nil
}
