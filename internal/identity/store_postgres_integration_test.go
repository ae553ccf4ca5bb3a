//go:build integration

package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"kustodia/internal/identity"
	"kustodia/internal/platform/postgres"
	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
	"kustodia/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *identity.Postgres
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
	s.store = identity.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "creditors", "debtors"))
}

func (s *PostgresStoreSuite) TestCreditorLifecycle() {
	ctx := context.Background()
	code := domain.HashIdentifier("BANK-001")
	addr := domain.Address{0x01}

	c := identity.Creditor{Code: code, Address: addr, Name: "First Bank"}
	s.Require().NoError(s.store.SaveCreditor(ctx, c))

	found, err := s.store.FindCreditor(ctx, code)
	s.Require().NoError(err)
	s.Equal(addr, found.Address)
	s.Equal("First Bank", found.Name)

	err = s.store.SaveCreditor(ctx, identity.Creditor{Code: code, Address: domain.Address{0x02}})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.DeleteCreditor(ctx, code))
	_, err = s.store.FindCreditor(ctx, code)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.DeleteCreditor(ctx, code)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDebtorLifecycle() {
	ctx := context.Background()
	nik := domain.HashIdentifier("3201011503890002")
	addr := domain.Address{0x03}

	s.Require().NoError(s.store.SaveDebtor(ctx, identity.Debtor{NIK: nik, Address: addr}))

	found, err := s.store.FindDebtor(ctx, nik)
	s.Require().NoError(err)
	s.Equal(addr, found.Address)

	err = s.store.SaveDebtor(ctx, identity.Debtor{NIK: nik, Address: addr})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.DeleteDebtor(ctx, nik))
	_, err = s.store.FindDebtor(ctx, nik)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
