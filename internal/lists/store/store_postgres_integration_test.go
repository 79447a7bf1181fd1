//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fraudgate/internal/evaluation/fields"
	"fraudgate/internal/lists"
	"fraudgate/internal/lists/store"
	"fraudgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "wb_list_entries"))
}

func (s *PostgresStoreSuite) query(list lists.ListType, partyID, shopID string, entries ...lists.Entry) lists.Query {
	return lists.Query{List: list, PartyID: partyID, ShopID: shopID, Entries: entries}
}

func (s *PostgresStoreSuite) TestExistsAny() {
	ctx := context.Background()
	email := lists.Entry{Field: fields.Email, Value: "fraud@example.com"}
	card := lists.Entry{Field: fields.CardToken, Value: "card-9"}

	s.Run("global entry matches any party and shop", func() {
		s.Require().NoError(s.store.Add(ctx, lists.Black, "", "", email))

		found, err := s.store.ExistsAny(ctx, s.query(lists.Black, "party-1", "shop-1", card, email))
		s.Require().NoError(err)
		s.True(found)
	})

	s.Run("list type is respected", func() {
		found, err := s.store.ExistsAny(ctx, s.query(lists.White, "party-1", "shop-1", email))
		s.Require().NoError(err)
		s.False(found)
	})

	s.Run("party scoped entry only matches its party", func() {
		s.Require().NoError(s.store.Add(ctx, lists.Black, "party-2", "", card))

		found, err := s.store.ExistsAny(ctx, s.query(lists.Black, "party-2", "shop-7", card))
		s.Require().NoError(err)
		s.True(found)

		found, err = s.store.ExistsAny(ctx, s.query(lists.Black, "party-3", "shop-7", card))
		s.Require().NoError(err)
		s.False(found)
	})

	s.Run("field and value must match together", func() {
		found, err := s.store.ExistsAny(ctx, s.query(lists.Black, "party-1", "shop-1",
			lists.Entry{Field: fields.CardToken, Value: "fraud@example.com"}))
		s.Require().NoError(err)
		s.False(found)
	})

	s.Run("no entries short-circuits", func() {
		found, err := s.store.ExistsAny(ctx, s.query(lists.Black, "party-1", "shop-1"))
		s.Require().NoError(err)
		s.False(found)
	})
}

func (s *PostgresStoreSuite) TestCheckerOverStore() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, lists.Black, "party-1", "shop-1", lists.Entry{Field: fields.IP, Value: "10.0.0.1"}))

	checker, err := lists.New(s.store)
	s.Require().NoError(err)

	found, err := checker.FindInBlackList(ctx, "party-1", "shop-1", []lists.Pair{
		lists.Of(fields.Email, ""),
		lists.Of(fields.IP, "10.0.0.1"),
	})
	s.Require().NoError(err)
	s.True(found)

	found, err = checker.FindInBlackList(ctx, "party-1", "shop-2", []lists.Pair{lists.Of(fields.IP, "10.0.0.1")})
	s.Require().NoError(err)
	s.False(found)
}
