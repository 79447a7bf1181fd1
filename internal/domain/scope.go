package domain

import (
	"strings"

	dErrors "fraudgate/pkg/domain-errors"
)

// Domain selects the command streams and feature set a rule belongs to.
type Domain string

const (
	DomainPayment      Domain = "PAYMENT"
	DomainPeerTransfer Domain = "PEER_TRANSFER"
)

// Domains lists every supported domain.
var Domains = []Domain{DomainPayment, DomainPeerTransfer}

func (d Domain) IsValid() bool {
	return d == DomainPayment || d == DomainPeerTransfer
}

func (d Domain) String() string {
	return string(d)
}

// ParseDomain accepts the canonical names case-insensitively, plus "p2p".
func ParseDomain(s string) (Domain, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PAYMENT":
		return DomainPayment, nil
	case "PEER_TRANSFER", "P2P":
		return DomainPeerTransfer, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown domain %q", s)
	}
}

// ScopeKind is the specificity level a rule or group is bound at.
type ScopeKind string

const (
	ScopeGlobal   ScopeKind = "GLOBAL"
	ScopeParty    ScopeKind = "PARTY"
	ScopeShop     ScopeKind = "SHOP"
	ScopeIdentity ScopeKind = "IDENTITY"
)

// ScopeKey identifies one binding slot within a domain.
type ScopeKey struct {
	Kind       ScopeKind
	PartyID    string
	ShopID     string
	IdentityID string
}

func GlobalScope() ScopeKey {
	return ScopeKey{Kind: ScopeGlobal}
}

func PartyScope(partyID string) ScopeKey {
	return ScopeKey{Kind: ScopeParty, PartyID: partyID}
}

func ShopScope(partyID, shopID string) ScopeKey {
	return ScopeKey{Kind: ScopeShop, PartyID: partyID, ShopID: shopID}
}

func IdentityScope(identityID string) ScopeKey {
	return ScopeKey{Kind: ScopeIdentity, IdentityID: identityID}
}

// String renders the compaction key form: "global", "party/<p>",
// "party/<p>/shop/<s>", "identity/<i>".
func (k ScopeKey) String() string {
	switch k.Kind {
	case ScopeGlobal:
		return "global"
	case ScopeParty:
		return "party/" + k.PartyID
	case ScopeShop:
		return "party/" + k.PartyID + "/shop/" + k.ShopID
	case ScopeIdentity:
		return "identity/" + k.IdentityID
	default:
		return string(k.Kind)
	}
}

// ParseScopeKey is the inverse of ScopeKey.String.
func ParseScopeKey(s string) (ScopeKey, error) {
	parts := strings.Split(s, "/")
	var key ScopeKey
	switch {
	case len(parts) == 1 && parts[0] == "global":
		key = GlobalScope()
	case len(parts) == 2 && parts[0] == "party":
		key = PartyScope(parts[1])
	case len(parts) == 4 && parts[0] == "party" && parts[2] == "shop":
		key = ShopScope(parts[1], parts[3])
	case len(parts) == 2 && parts[0] == "identity":
		key = IdentityScope(parts[1])
	default:
		return ScopeKey{}, dErrors.Newf(dErrors.CodeValidation, "invalid scope key %q", s)
	}
	if err := key.Validate(); err != nil {
		return ScopeKey{}, err
	}
	return key, nil
}

// Validate checks that the identifiers required by the kind are present and
// that no others are set.
func (k ScopeKey) Validate() error {
	for _, id := range []string{k.PartyID, k.ShopID, k.IdentityID} {
		if strings.Contains(id, "/") {
			return dErrors.Newf(dErrors.CodeValidation, "scope identifier %q must not contain '/'", id)
		}
	}
	switch k.Kind {
	case ScopeGlobal:
		if k.PartyID != "" || k.ShopID != "" || k.IdentityID != "" {
			return dErrors.New(dErrors.CodeValidation, "global scope takes no identifiers")
		}
	case ScopeParty:
		if k.PartyID == "" || k.ShopID != "" || k.IdentityID != "" {
			return dErrors.New(dErrors.CodeValidation, "party scope requires party_id only")
		}
	case ScopeShop:
		if k.PartyID == "" || k.ShopID == "" || k.IdentityID != "" {
			return dErrors.New(dErrors.CodeValidation, "shop scope requires party_id and shop_id")
		}
	case ScopeIdentity:
		if k.IdentityID == "" || k.PartyID != "" || k.ShopID != "" {
			return dErrors.New(dErrors.CodeValidation, "identity scope requires identity_id only")
		}
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown scope kind %q", k.Kind)
	}
	return nil
}

// AllowedIn reports whether the scope kind exists in the domain. Payments are
// scoped by party and shop, peer transfers by identity.
func (k ScopeKey) AllowedIn(d Domain) bool {
	switch k.Kind {
	case ScopeGlobal:
		return true
	case ScopeParty, ScopeShop:
		return d == DomainPayment
	case ScopeIdentity:
		return d == DomainPeerTransfer
	default:
		return false
	}
}

// validateFor combines Validate and AllowedIn.
func (k ScopeKey) validateFor(d Domain) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if !k.AllowedIn(d) {
		return dErrors.Newf(dErrors.CodeValidation, "scope %s is not valid in domain %s", k.Kind, d)
	}
	return nil
}

