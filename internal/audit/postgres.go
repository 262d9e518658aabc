package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	id "certform/pkg/domain"
)

// PostgresSchema creates the audit_events table. Applied by migrations in
// deployed environments and by integration tests directly.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id             BIGSERIAL PRIMARY KEY,
	occurred_at    TIMESTAMPTZ NOT NULL,
	actor_id       TEXT NOT NULL,
	actor_role     TEXT NOT NULL,
	application_id UUID NOT NULL,
	form_name      TEXT NOT NULL,
	action         TEXT NOT NULL,
	detail         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_application_idx ON audit_events (application_id, occurred_at);
`

// PostgresStore persists audit events in PostgreSQL, append-only.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (occurred_at, actor_id, actor_role, application_id, form_name, action, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp, event.ActorID, event.ActorRole,
		event.ApplicationID.String(), event.Form, event.Action, event.Detail)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByApplication(ctx context.Context, appID id.ApplicationID) ([]Event, error) {
	query := `
		SELECT occurred_at, actor_id, actor_role, application_id, form_name, action, detail
		FROM audit_events
		WHERE application_id = $1
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, appID.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var rawAppID string
		if err := rows.Scan(&event.Timestamp, &event.ActorID, &event.ActorRole,
			&rawAppID, &event.Form, &event.Action, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		parsed, err := id.ParseApplicationID(rawAppID)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ApplicationID = parsed
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
