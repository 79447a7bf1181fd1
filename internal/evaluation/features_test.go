package evaluation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fraudgate/internal/aggregates"
	aggmocks "fraudgate/internal/aggregates/mocks"
	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/evaluation/fields"
	geomocks "fraudgate/internal/geo/mocks"
	"fraudgate/internal/lists"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/sentinel"
)

type stubLists struct {
	list  lists.ListType
	pairs []lists.Pair
	found bool
	err   error
}

func (s *stubLists) FindInBlackList(_ context.Context, _, _ string, pairs []lists.Pair) (bool, error) {
	s.list, s.pairs = lists.Black, pairs
	return s.found, s.err
}

func (s *stubLists) FindInWhiteList(_ context.Context, _, _ string, pairs []lists.Pair) (bool, error) {
	s.list, s.pairs = lists.White, pairs
	return s.found, s.err
}

type FeaturesSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	agg  *aggmocks.MockSource
	geo  *geomocks.MockResolver
	now  time.Time
	tx   fields.Transaction
}

func TestFeaturesSuite(t *testing.T) {
	suite.Run(t, new(FeaturesSuite))
}

func (s *FeaturesSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.agg = aggmocks.NewMockSource(s.ctrl)
	s.geo = geomocks.NewMockResolver(s.ctrl)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.tx = fields.Transaction{
		IP:          "10.0.0.1",
		Email:       "a@b.c",
		CardToken:   "tok",
		PartyID:     "p1",
		ShopID:      "s1",
		CountryBank: "rus",
		Amount:      decimal.NewFromInt(4500),
	}
}

func (s *FeaturesSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *FeaturesSuite) features(src evaluation.Sources) *evaluation.Features {
	return evaluation.NewFeatures(domain.DomainPayment, s.tx, s.now, src, 50*time.Millisecond)
}

func (s *FeaturesSuite) TestField() {
	f := s.features(evaluation.Sources{})

	v, err := f.Field("email")
	s.NoError(err)
	s.Equal("a@b.c", v)

	v, err = f.Field("mobile")
	s.NoError(err)
	s.Empty(v)

	_, err = f.Field("shoe_size")
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownField))
}

func (s *FeaturesSuite) TestCountBuildsWindowQuery() {
	s.agg.EXPECT().CountOver(gomock.Any(), aggregates.Query{
		Domain: domain.DomainPayment, Field: fields.Email, Value: "a@b.c", Window: 10 * time.Minute, Now: s.now,
	}).Return(int64(2), nil)

	n, err := s.features(evaluation.Sources{Aggregates: s.agg}).Count(context.Background(), "email", 10*time.Minute)
	s.NoError(err)
	s.Equal(int64(2), n)
}

func (s *FeaturesSuite) TestSumErrorIsExternal() {
	s.agg.EXPECT().SumOver(gomock.Any(), gomock.Any()).Return(decimal.Zero, errors.New("connection reset"))

	_, err := s.features(evaluation.Sources{Aggregates: s.agg}).Sum(context.Background(), "card_token", time.Hour)
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
}

func (s *FeaturesSuite) TestPerCallTimeoutIsExternalFailure() {
	s.agg.EXPECT().CountOver(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ aggregates.Query) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	_, err := s.features(evaluation.Sources{Aggregates: s.agg}).Count(context.Background(), "email", time.Minute)
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService), "got %v", err)
}

func (s *FeaturesSuite) TestExpiredRequestDeadlineIsTimeout() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.agg.EXPECT().CountOver(gomock.Any(), gomock.Any()).Return(int64(0), context.Canceled)

	_, err := s.features(evaluation.Sources{Aggregates: s.agg}).Count(ctx, "email", time.Minute)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *FeaturesSuite) TestMissingSources() {
	f := s.features(evaluation.Sources{})

	_, err := f.Count(context.Background(), "email", time.Minute)
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService))

	_, err = f.InBlackList(context.Background(), "email")
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService))

	_, err = f.CountryBy(context.Background(), "ip")
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
}

func (s *FeaturesSuite) TestInBlackListPassesPairs() {
	l := &stubLists{found: true}
	found, err := s.features(evaluation.Sources{Lists: l}).InBlackList(context.Background(), "email", "fingerprint")
	s.NoError(err)
	s.True(found)
	s.Equal([]lists.Pair{lists.Of(fields.Email, "a@b.c"), lists.Of(fields.Fingerprint, "")}, l.pairs)
	s.Equal(lists.Black, l.list)
}

func (s *FeaturesSuite) TestInWhiteListUsesWhiteList() {
	l := &stubLists{found: true}
	found, err := s.features(evaluation.Sources{Lists: l}).InWhiteList(context.Background(), "email")
	s.NoError(err)
	s.True(found)
	s.Equal(lists.White, l.list)
	s.Equal([]lists.Pair{lists.Of(fields.Email, "a@b.c")}, l.pairs)
}

func (s *FeaturesSuite) TestInBlackListUnknownField() {
	_, err := s.features(evaluation.Sources{Lists: &stubLists{}}).InBlackList(context.Background(), "email", "nope")
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownField))
}

func (s *FeaturesSuite) TestCountryBy() {
	s.Run("non ip fields are returned upper-cased", func() {
		c, err := s.features(evaluation.Sources{}).CountryBy(context.Background(), "country_bank")
		s.NoError(err)
		s.Equal("RUS", c)
	})

	s.Run("empty value is unknown", func() {
		c, err := s.features(evaluation.Sources{}).CountryBy(context.Background(), "currency")
		s.NoError(err)
		s.Equal(evaluation.UnknownCountry, c)
	})

	s.Run("ip is resolved once per request", func() {
		s.geo.EXPECT().ResolveCountry(gomock.Any(), "10.0.0.1").Return("de", nil).Times(1)
		f := s.features(evaluation.Sources{Geo: s.geo})
		for range 2 {
			c, err := f.CountryBy(context.Background(), "ip")
			s.NoError(err)
			s.Equal("DE", c)
		}
	})

	s.Run("unknown ip is unknown country", func() {
		s.geo.EXPECT().ResolveCountry(gomock.Any(), "10.0.0.1").Return("", sentinel.ErrNotFound)
		c, err := s.features(evaluation.Sources{Geo: s.geo}).CountryBy(context.Background(), "ip")
		s.NoError(err)
		s.Equal(evaluation.UnknownCountry, c)
	})

	s.Run("pre-resolved country skips the geo service", func() {
		s.tx.CountryIP = "fr"
		defer func() { s.tx.CountryIP = "" }()
		c, err := s.features(evaluation.Sources{Geo: s.geo}).CountryBy(context.Background(), "ip")
		s.NoError(err)
		s.Equal("FR", c)
	})

	s.Run("geo outage is external failure", func() {
		s.geo.EXPECT().ResolveCountry(gomock.Any(), "10.0.0.1").Return("", sentinel.ErrUnavailable)
		_, err := s.features(evaluation.Sources{Geo: s.geo}).CountryBy(context.Background(), "ip")
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
	})
}
