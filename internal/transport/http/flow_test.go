package httptransport_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/aggregates"
	"fraudgate/internal/commandlog"
	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation"
	"fraudgate/internal/evaluation/fields"
	"fraudgate/internal/evaluation/lua"
	"fraudgate/internal/geo"
	"fraudgate/internal/inspector"
	"fraudgate/internal/inspector/handler"
	jwttoken "fraudgate/internal/jwt_token"
	"fraudgate/internal/platform/kafka/consumer"
	"fraudgate/internal/registry"
	"fraudgate/internal/resolver"
	httptransport "fraudgate/internal/transport/http"
	"fraudgate/internal/verdict"
	"fraudgate/internal/verdict/store"
	"fraudgate/pkg/testutil"
)

const repeatEmailRule = `
local c = count("email", 10)
if c > 1 and c < 3 and sum("email", 10) >= 9000 and count("card_token", 10) > 1
	and one_of(country_by("country_bank"), "RUS") then
	return "decline", "repeat_email"
end
`

// flow runs the whole request path in process. Commands travel through the
// same codec and handler the Kafka consumers use.
type flow struct {
	t        *testing.T
	handlers map[domain.BodyKind]*commandlog.Handler
	offset   int64
	router   http.Handler
	token    string
}

func newFlow(t *testing.T) *flow {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New()

	handlers := make(map[domain.BodyKind]*commandlog.Handler, len(domain.BodyKinds))
	for _, kind := range domain.BodyKinds {
		stream := commandlog.Stream{Topic: "payment-" + string(kind), Domain: domain.DomainPayment, Kind: kind}
		handlers[kind] = commandlog.NewHandler(stream, reg, logger, nil)
	}

	now := time.Now()
	past := fields.Transaction{Email: "buyer@example.com", CardToken: "card-1", Amount: decimal.NewFromInt(4500)}
	history := aggregates.NewMemory(
		aggregates.Event{Domain: domain.DomainPayment, At: now.Add(-2 * time.Minute), Tx: past},
		aggregates.Event{Domain: domain.DomainPayment, At: now.Add(-time.Minute), Tx: past},
	)

	adapter, err := evaluation.NewAdapter(lua.New(), evaluation.WithLogger(logger))
	require.NoError(t, err)
	aggregator := verdict.NewAggregator(
		verdict.WithEscalator(verdict.NewRecencyEscalator(store.NewMemoryStore(100), 10*time.Minute, 1)),
		verdict.WithLogger(logger),
	)
	svc := inspector.New(resolver.New(reg), adapter, aggregator,
		inspector.WithSources(evaluation.Sources{Aggregates: history, Geo: geo.StaticResolver{}}),
		inspector.WithLogger(logger),
	)

	jwt := jwttoken.NewJWTService("flow-test-signing-key", "fraud-inspector")
	token, err := jwt.IssueServiceToken("checkout", time.Minute)
	require.NoError(t, err)

	return &flow{
		t:        t,
		handlers: handlers,
		token:    token,
		router: httptransport.NewRouter(httptransport.Deps{
			Logger:    logger,
			API:       handler.New(svc, reg, logger),
			Validator: jwttoken.NewValidator(jwt),
			Ready:     func() bool { return true },
		}),
	}
}

func (f *flow) publish(cmd domain.Command) {
	f.t.Helper()
	key, value, err := commandlog.Encode(cmd)
	require.NoError(f.t, err)
	f.offset++
	h := f.handlers[cmd.Kind]
	require.NoError(f.t, h.Handle(context.Background(), &consumer.Message{
		Topic: "payment-" + string(cmd.Kind), Offset: f.offset, Key: key, Value: value,
	}))
}

func (f *flow) rule(ruleID, source string) {
	f.publish(domain.Command{
		Type: domain.CommandCreate, Domain: domain.DomainPayment, Kind: domain.BodyRule, Key: ruleID,
		Rule: &domain.RuleDefinition{RuleID: ruleID, Domain: domain.DomainPayment, Source: []byte(source)},
	})
}

func (f *flow) bind(scope domain.ScopeKey, ruleID string) {
	f.publish(domain.Command{
		Type: domain.CommandCreate, Domain: domain.DomainPayment, Kind: domain.BodyBinding, Key: scope.String(),
		Binding: &domain.ScopeBinding{Domain: domain.DomainPayment, Scope: scope, RuleID: ruleID},
	})
}

func (f *flow) inspect(partyID, shopID string) *handler.InspectResponse {
	f.t.Helper()
	body := handler.InspectRequest{
		Domain:  "PAYMENT",
		PartyID: partyID,
		ShopID:  shopID,
		Transaction: handler.TransactionBody{
			Email:       "buyer@example.com",
			CardToken:   "card-1",
			Fingerprint: "fp-1",
			CountryBank: "rus",
			Amount:      decimal.NewFromInt(100),
		},
	}
	req := testutil.WithBearer(testutil.NewJSONRequest(f.t, http.MethodPost, "/v1/inspect", body), f.token)
	rr := testutil.DoRequest(f.router, req)
	require.Equal(f.t, http.StatusOK, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[handler.InspectResponse](f.t, rr)
}

func TestInspectionFlow(t *testing.T) {
	testutil.Given(t, "a global repeat-email rule delivered through the command log", func(t *testing.T) {
		f := newFlow(t)
		f.rule("repeat-email", repeatEmailRule)
		f.bind(domain.GlobalScope(), "repeat-email")

		testutil.When(t, "the same buyer is inspected twice", func(t *testing.T) {
			first := f.inspect("", "")
			second := f.inspect("", "")

			testutil.Then(t, "the first decline is HIGH and the repeat escalates to FATAL", func(t *testing.T) {
				assert.Equal(t, "HIGH", first.RiskScore)
				assert.Equal(t, "repeat-email", first.RuleID)
				assert.Equal(t, "repeat_email", first.Branch)
				assert.Equal(t, "FATAL", second.RiskScore)
				assert.True(t, second.Escalated)
			})
		})

		testutil.When(t, "a shop rule that accepts is bound for the party's shop", func(t *testing.T) {
			f.rule("shop-accept", `if sum("email", 10) >= 9000 then return "accept" end`)
			f.bind(domain.ShopScope("test", "shop"), "shop-accept")
			res := f.inspect("test", "shop")

			testutil.Then(t, "the shop rule wins and the score is LOW", func(t *testing.T) {
				assert.Equal(t, "LOW", res.RiskScore)
				assert.Equal(t, "shop-accept", res.RuleID)
				assert.Equal(t, "party/test/shop/shop", res.Scope)
			})
		})

		testutil.When(t, "the shop binding is tombstoned", func(t *testing.T) {
			key := domain.ShopScope("test", "shop").String()
			f.publish(domain.Command{Type: domain.CommandDelete, Domain: domain.DomainPayment, Kind: domain.BodyBinding, Key: key})
			res := f.inspect("test", "shop")

			testutil.Then(t, "resolution falls back to the global rule", func(t *testing.T) {
				assert.Equal(t, "repeat-email", res.RuleID)
			})
		})
	})

	testutil.Given(t, "a request without a token", func(t *testing.T) {
		f := newFlow(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/inspect", map[string]string{"domain": "PAYMENT"})

		testutil.Then(t, "it is rejected before reaching the inspector", func(t *testing.T) {
			testutil.AssertStatusAndError(t, testutil.DoRequest(f.router, req), http.StatusUnauthorized, "unauthorized")
		})
	})
}
