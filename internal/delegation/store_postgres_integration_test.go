//go:build integration

package delegation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kustodia/internal/delegation"
	"kustodia/internal/platform/postgres"
	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
	"kustodia/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *delegation.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB))
	s.store = delegation.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "debtor_ledger", "delegation_requests"))
}

var (
	nik      = domain.HashIdentifier("3201011503890002")
	consumer = domain.Address{0x0c}
	provider = domain.Address{0x0b}
)

func (s *PostgresStoreSuite) TestStatusDefaultsToNone() {
	status, err := s.store.GetStatus(context.Background(), nik, consumer)
	s.Require().NoError(err)
	s.Equal(domain.StatusNone, status)
}

func (s *PostgresStoreSuite) TestUpsertPreservesEnumerationOrder() {
	ctx := context.Background()

	s.Require().NoError(s.store.UpsertStatus(ctx, nik, provider, domain.StatusApproved))
	s.Require().NoError(s.store.UpsertStatus(ctx, nik, consumer, domain.StatusPending))
	// Status change must not move the creditor's position.
	s.Require().NoError(s.store.UpsertStatus(ctx, nik, provider, domain.StatusRejected))

	statuses, err := s.store.ListStatuses(ctx, nik)
	s.Require().NoError(err)
	s.Require().Len(statuses, 2)
	s.Equal(provider, statuses[0].Creditor)
	s.Equal(domain.StatusRejected, statuses[0].Status)
	s.Equal(consumer, statuses[1].Creditor)
}

func (s *PostgresStoreSuite) TestRequestLifecycle() {
	ctx := context.Background()
	req := delegation.Request{
		Consumer:  consumer,
		Provider:  provider,
		NIK:       nik,
		Status:    domain.StatusPending,
		Metadata:  "loan check",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	s.Require().NoError(s.store.CreateRequest(ctx, req))
	s.Require().ErrorIs(s.store.CreateRequest(ctx, req), sentinel.ErrConflict)

	found, err := s.store.FindRequest(ctx, consumer, provider)
	s.Require().NoError(err)
	s.Equal(req.NIK, found.NIK)
	s.Equal(domain.StatusPending, found.Status)
	s.Equal("loan check", found.Metadata)
	s.Nil(found.ResolvedAt)

	resolvedAt := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.ResolveRequest(ctx, consumer, provider, domain.StatusApproved, "", resolvedAt))

	found, err = s.store.FindRequest(ctx, consumer, provider)
	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, found.Status)
	s.Equal("loan check", found.Metadata, "empty decision metadata keeps the request's")
	s.Require().NotNil(found.ResolvedAt)
	s.WithinDuration(resolvedAt, *found.ResolvedAt, time.Second)
}

func (s *PostgresStoreSuite) TestResolveRequestReplacesMetadata() {
	ctx := context.Background()
	req := delegation.Request{
		Consumer:  consumer,
		Provider:  provider,
		NIK:       nik,
		Status:    domain.StatusPending,
		Metadata:  "loan check",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.CreateRequest(ctx, req))

	s.Require().NoError(s.store.ResolveRequest(ctx, consumer, provider, domain.StatusRejected, "insufficient history", time.Now().UTC()))

	found, err := s.store.FindRequest(ctx, consumer, provider)
	s.Require().NoError(err)
	s.Equal("insufficient history", found.Metadata)
}

func (s *PostgresStoreSuite) TestResolveMissingRequest() {
	err := s.store.ResolveRequest(context.Background(), consumer, provider, domain.StatusApproved, "", time.Now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindMissingRequest() {
	_, err := s.store.FindRequest(context.Background(), consumer, provider)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
