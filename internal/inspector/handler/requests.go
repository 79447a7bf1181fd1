package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"fraudgate/internal/domain"
	"fraudgate/internal/evaluation/fields"
	"fraudgate/internal/inspector"
	"fraudgate/internal/resolver"
	dErrors "fraudgate/pkg/domain-errors"
)

const maxAttributeLen = 256

// InspectRequest is the HTTP request body for POST /v1/inspect.
type InspectRequest struct {
	Domain      string          `json:"domain"`
	PartyID     string          `json:"party_id"`
	ShopID      string          `json:"shop_id"`
	IdentityID  string          `json:"identity_id"`
	Transaction TransactionBody `json:"transaction"`

	// Parsed values (populated by Validate)
	parsedDomain domain.Domain
}

// TransactionBody carries the transaction attributes rules may read.
type TransactionBody struct {
	IP          string          `json:"ip"`
	BIN         string          `json:"bin"`
	CardToken   string          `json:"card_token"`
	Email       string          `json:"email"`
	LastDigits  string          `json:"last_digits"`
	Fingerprint string          `json:"fingerprint"`
	CountryBank string          `json:"country_bank"`
	Currency    string          `json:"currency"`
	CountryIP   string          `json:"country_ip"`
	Mobile      string          `json:"mobile"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *InspectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	for name, v := range r.attributes() {
		if len(*v) > maxAttributeLen {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", name, maxAttributeLen)
		}
		*v = strings.TrimSpace(*v)
	}

	d, err := domain.ParseDomain(r.Domain)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "domain must be PAYMENT or PEER_TRANSFER")
	}
	r.parsedDomain = d

	if err := validateScopeIDs(r.PartyID, r.ShopID, r.IdentityID); err != nil {
		return err
	}
	if r.Transaction.Amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "transaction.amount must not be negative")
	}
	return nil
}

// validateScopeIDs rejects identifiers that would build another scope's key.
func validateScopeIDs(partyID, shopID, identityID string) error {
	if shopID != "" && partyID == "" {
		return dErrors.New(dErrors.CodeValidation, "shop_id requires party_id")
	}
	for name, v := range map[string]string{"party_id": partyID, "shop_id": shopID, "identity_id": identityID} {
		if len(v) > maxAttributeLen {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", name, maxAttributeLen)
		}
		if strings.Contains(v, "/") {
			return dErrors.Newf(dErrors.CodeValidation, "%s must not contain '/'", name)
		}
	}
	return nil
}

// ResolveQuery is the query string of GET /v1/resolve.
type ResolveQuery struct {
	Domain     string
	PartyID    string
	ShopID     string
	IdentityID string

	parsedDomain domain.Domain
}

// Validate applies the same identifier rules as InspectRequest.
func (q *ResolveQuery) Validate() error {
	q.PartyID = strings.TrimSpace(q.PartyID)
	q.ShopID = strings.TrimSpace(q.ShopID)
	q.IdentityID = strings.TrimSpace(q.IdentityID)
	d, err := domain.ParseDomain(strings.TrimSpace(q.Domain))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "domain must be PAYMENT or PEER_TRANSFER")
	}
	q.parsedDomain = d
	return validateScopeIDs(q.PartyID, q.ShopID, q.IdentityID)
}

// ToRequest builds the resolver request. Call after Validate.
func (q *ResolveQuery) ToRequest() resolver.Request {
	return resolver.Request{Domain: q.parsedDomain, PartyID: q.PartyID, ShopID: q.ShopID, IdentityID: q.IdentityID}
}

func (r *InspectRequest) attributes() map[string]*string {
	t := &r.Transaction
	return map[string]*string{
		"domain":                   &r.Domain,
		"party_id":                 &r.PartyID,
		"shop_id":                  &r.ShopID,
		"identity_id":              &r.IdentityID,
		"transaction.ip":           &t.IP,
		"transaction.bin":          &t.BIN,
		"transaction.card_token":   &t.CardToken,
		"transaction.email":        &t.Email,
		"transaction.last_digits":  &t.LastDigits,
		"transaction.fingerprint":  &t.Fingerprint,
		"transaction.country_bank": &t.CountryBank,
		"transaction.currency":     &t.Currency,
		"transaction.country_ip":   &t.CountryIP,
		"transaction.mobile":       &t.Mobile,
	}
}

// ToRequest builds the service request. Call after Validate.
func (r *InspectRequest) ToRequest() inspector.Request {
	t := r.Transaction
	return inspector.Request{
		Domain: r.parsedDomain,
		Tx: fields.Transaction{
			IP:          t.IP,
			BIN:         t.BIN,
			CardToken:   t.CardToken,
			PartyID:     r.PartyID,
			Email:       t.Email,
			LastDigits:  t.LastDigits,
			Fingerprint: t.Fingerprint,
			ShopID:      r.ShopID,
			CountryBank: t.CountryBank,
			Currency:    t.Currency,
			CountryIP:   t.CountryIP,
			IdentityID:  r.IdentityID,
			Mobile:      t.Mobile,
			Amount:      t.Amount,
		},
	}
}
