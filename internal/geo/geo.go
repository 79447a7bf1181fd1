// Package geo resolves IP addresses to ISO country codes.
package geo

import (
	"context"
	"strings"

	"fraudgate/pkg/platform/sentinel"
)

//go:generate mockgen -source=geo.go -destination=mocks/mocks.go -package=mocks Resolver

// Resolver resolves an IP to a country code. Unknown addresses return an
// error wrapping sentinel.ErrNotFound.
type Resolver interface {
	ResolveCountry(ctx context.Context, ip string) (string, error)
}

// StaticResolver answers from a fixed table.
type StaticResolver map[string]string

func (s StaticResolver) ResolveCountry(_ context.Context, ip string) (string, error) {
	if c, ok := s[ip]; ok {
		return strings.ToUpper(c), nil
	}
	return "", sentinel.ErrNotFound
}
