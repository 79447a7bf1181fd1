//go:build integration

package geo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fraudgate/internal/geo"
	"fraudgate/internal/geo/mocks"
	"fraudgate/pkg/platform/sentinel"
	"fraudgate/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	ctrl  *gomock.Controller
	next  *mocks.MockResolver
	cache *geo.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.ctrl = gomock.NewController(s.T())
	s.next = mocks.NewMockResolver(s.ctrl)
	s.cache = geo.NewRedisCache(s.next, s.redis.Client, time.Minute, nil)
}

func (s *RedisCacheSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RedisCacheSuite) TestCachesCountry() {
	ctx := context.Background()
	s.next.EXPECT().ResolveCountry(gomock.Any(), "1.2.3.4").Return("RU", nil).Times(1)

	for range 3 {
		country, err := s.cache.ResolveCountry(ctx, "1.2.3.4")
		s.Require().NoError(err)
		s.Equal("RU", country)
	}
}

func (s *RedisCacheSuite) TestCachesNotFound() {
	ctx := context.Background()
	s.next.EXPECT().ResolveCountry(gomock.Any(), "10.0.0.1").Return("", sentinel.ErrNotFound).Times(1)

	for range 2 {
		_, err := s.cache.ResolveCountry(ctx, "10.0.0.1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	}
}

func (s *RedisCacheSuite) TestDoesNotCacheFailures() {
	ctx := context.Background()
	outage := errors.New("geo down")
	gomock.InOrder(
		s.next.EXPECT().ResolveCountry(gomock.Any(), "1.2.3.4").Return("", outage),
		s.next.EXPECT().ResolveCountry(gomock.Any(), "1.2.3.4").Return("DE", nil),
	)

	_, err := s.cache.ResolveCountry(ctx, "1.2.3.4")
	s.ErrorIs(err, outage)

	country, err := s.cache.ResolveCountry(ctx, "1.2.3.4")
	s.Require().NoError(err)
	s.Equal("DE", country)
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	s.next.EXPECT().ResolveCountry(gomock.Any(), "1.2.3.4").Return("RU", nil)

	_, err := s.cache.ResolveCountry(ctx, "1.2.3.4")
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, "geo:ip:1.2.3.4").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
