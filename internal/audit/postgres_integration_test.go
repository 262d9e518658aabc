//go:build integration

package audit_test

// Justification for integration tests: the audit trail's only guarantees are
// append-only persistence and stable per-application ordering, both of which
// live in SQL.

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certform/internal/audit"
	id "certform/pkg/domain"
	"certform/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = audit.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresStoreSuite) event(appID id.ApplicationID, action string, at time.Time) audit.Event {
	return audit.Event{
		Timestamp:     at,
		ActorID:       "exporter-1",
		ActorRole:     "APPLICANT",
		ApplicationID: appID,
		Form:          "phytosanitaryCertificate",
		Action:        action,
		Detail:        "",
	}
}

func (s *PostgresStoreSuite) TestAppendAndListOrdered() {
	ctx := context.Background()
	appID := id.NewApplicationID()
	base := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, s.event(appID, audit.ActionAnswersSaved, base.Add(time.Minute))))
	s.Require().NoError(s.store.Append(ctx, s.event(appID, audit.ActionApplicationCreated, base)))
	s.Require().NoError(s.store.Append(ctx, s.event(appID, audit.ActionApplicationSubmitted, base.Add(2*time.Minute))))

	events, err := s.store.ListByApplication(ctx, appID)
	s.Require().NoError(err)
	s.Require().Len(events, 3)

	s.Equal(audit.ActionApplicationCreated, events[0].Action)
	s.Equal(audit.ActionAnswersSaved, events[1].Action)
	s.Equal(audit.ActionApplicationSubmitted, events[2].Action)
	s.Equal(appID, events[0].ApplicationID)
	s.Equal("exporter-1", events[0].ActorID)
	s.True(events[0].Timestamp.Equal(base))
}

func (s *PostgresStoreSuite) TestListFiltersByApplication() {
	ctx := context.Background()
	appID := id.NewApplicationID()
	otherID := id.NewApplicationID()
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, s.event(appID, audit.ActionApplicationCreated, now)))
	s.Require().NoError(s.store.Append(ctx, s.event(otherID, audit.ActionApplicationCreated, now)))

	events, err := s.store.ListByApplication(ctx, appID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(appID, events[0].ApplicationID)
}

func (s *PostgresStoreSuite) TestListUnknownApplicationIsEmpty() {
	events, err := s.store.ListByApplication(context.Background(), id.NewApplicationID())
	s.Require().NoError(err)
	s.Empty(events)
}
