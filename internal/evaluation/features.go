package evaluation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fraudgate/internal/aggregates"
	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation/fields"
	"fraudgate/internal/geo"
	"fraudgate/internal/lists"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/sentinel"
)

// UnknownCountry is returned by CountryBy when the country cannot be found.
const UnknownCountry = "UNKNOWN"

// ListChecker is the list membership collaborator.
type ListChecker interface {
	FindInBlackList(ctx context.Context, partyID, shopID string, pairs []lists.Pair) (bool, error)
	FindInWhiteList(ctx context.Context, partyID, shopID string, pairs []lists.Pair) (bool, error)
}

// Sources are the external collaborators behind a FeatureContext. A nil
// source makes every feature that needs it fail with CodeExternalService.
type Sources struct {
	Aggregates aggregates.Source
	Lists      ListChecker
	Geo        geo.Resolver
}

// Features is the FeatureContext of one request.
type Features struct {
	domain      domain.Domain
	tx          fields.Transaction
	now         time.Time
	sources     Sources
	callTimeout time.Duration

	mu      sync.Mutex
	country *string // memoized geo answer for tx.IP
}

// NewFeatures builds the feature context for tx. Each external call gets its
// own timeout of callTimeout, capped by the caller's deadline.
func NewFeatures(d domain.Domain, tx fields.Transaction, now time.Time, sources Sources, callTimeout time.Duration) *Features {
	return &Features{domain: d, tx: tx, now: now, sources: sources, callTimeout: callTimeout}
}

func (f *Features) Field(name string) (string, error) {
	_, v, err := f.tx.Lookup(name)
	return v, err
}

func (f *Features) Count(ctx context.Context, field string, window time.Duration) (int64, error) {
	q, err := f.aggregateQuery(field, window)
	if err != nil {
		return 0, err
	}
	var n int64
	err = f.call(ctx, "aggregate count", func(ctx context.Context) error {
		var err error
		n, err = f.sources.Aggregates.CountOver(ctx, q)
		return err
	})
	return n, err
}

func (f *Features) Sum(ctx context.Context, field string, window time.Duration) (decimal.Decimal, error) {
	q, err := f.aggregateQuery(field, window)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	err = f.call(ctx, "aggregate sum", func(ctx context.Context) error {
		var err error
		sum, err = f.sources.Aggregates.SumOver(ctx, q)
		return err
	})
	return sum, err
}

func (f *Features) aggregateQuery(field string, window time.Duration) (aggregates.Query, error) {
	fld, v, err := f.tx.Lookup(field)
	if err != nil {
		return aggregates.Query{}, err
	}
	if f.sources.Aggregates == nil {
		return aggregates.Query{}, dErrors.New(dErrors.CodeExternalService, "aggregate source not configured")
	}
	return aggregates.Query{Domain: f.domain, Field: fld, Value: v, Window: window, Now: f.now}, nil
}

func (f *Features) InBlackList(ctx context.Context, fieldNames ...string) (bool, error) {
	return f.inList(ctx, lists.Black, fieldNames)
}

// InWhiteList reports whether any named attribute is whitelisted for the
// request's party and shop.
func (f *Features) InWhiteList(ctx context.Context, fieldNames ...string) (bool, error) {
	return f.inList(ctx, lists.White, fieldNames)
}

func (f *Features) inList(ctx context.Context, list lists.ListType, fieldNames []string) (bool, error) {
	pairs := make([]lists.Pair, 0, len(fieldNames))
	for _, name := range fieldNames {
		fld, v, err := f.tx.Lookup(name)
		if err != nil {
			return false, err
		}
		pairs = append(pairs, lists.Of(fld, v))
	}
	if f.sources.Lists == nil {
		return false, dErrors.New(dErrors.CodeExternalService, "list service not configured")
	}
	var found bool
	err := f.call(ctx, "list lookup", func(ctx context.Context) error {
		var err error
		if list == lists.White {
			found, err = f.sources.Lists.FindInWhiteList(ctx, f.tx.PartyID, f.tx.ShopID, pairs)
			return err
		}
		found, err = f.sources.Lists.FindInBlackList(ctx, f.tx.PartyID, f.tx.ShopID, pairs)
		return err
	})
	return found, err
}

// CountryBy resolves the country of IP-like fields through the geo service,
// preferring a pre-resolved COUNTRY_IP. Other fields already hold a country
// and are returned upper-cased.
func (f *Features) CountryBy(ctx context.Context, field string) (string, error) {
	fld, v, err := f.tx.Lookup(field)
	if err != nil {
		return "", err
	}
	if fld != fields.IP && fld != fields.CountryIP {
		return orUnknown(v), nil
	}
	if f.tx.CountryIP != "" {
		return orUnknown(f.tx.CountryIP), nil
	}
	if f.tx.IP == "" {
		return UnknownCountry, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.country != nil {
		return *f.country, nil
	}
	if f.sources.Geo == nil {
		return "", dErrors.New(dErrors.CodeExternalService, "geo service not configured")
	}
	var country string
	err = f.call(ctx, "geo lookup", func(ctx context.Context) error {
		c, err := f.sources.Geo.ResolveCountry(ctx, f.tx.IP)
		if errors.Is(err, sentinel.ErrNotFound) {
			c, err = UnknownCountry, nil
		}
		country = c
		return err
	})
	if err != nil {
		return "", err
	}
	country = orUnknown(country)
	f.country = &country
	return country, nil
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownCountry
	}
	return strings.ToUpper(v)
}

// call bounds fn by the per-call timeout and types its error. Running out of
// the caller's deadline is a timeout; anything else is an external failure.
func (f *Features) call(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	cctx := ctx
	if f.callTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, f.callTimeout)
		defer cancel()
	}
	err := fn(cctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "request deadline exceeded during "+what)
	}
	if dErrors.HasCode(err, dErrors.CodeExternalService) || dErrors.HasCode(err, dErrors.CodeUnknownField) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeExternalService, what+" failed")
}
