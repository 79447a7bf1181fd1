// Package fields is the closed set of transaction attributes a rule may read.
package fields

import (
	"strings"

	"github.com/shopspring/decimal"

	dErrors "fraudgate/pkg/domain-errors"
)

// Field names a transaction attribute.
type Field string

const (
	IP          Field = "IP"
	BIN         Field = "BIN"
	CardToken   Field = "CARD_TOKEN"
	PartyID     Field = "PARTY_ID"
	Email       Field = "EMAIL"
	LastDigits  Field = "LAST_DIGITS"
	Fingerprint Field = "FINGERPRINT"
	ShopID      Field = "SHOP_ID"
	CountryBank Field = "COUNTRY_BANK"
	Currency    Field = "CURRENCY"
	CountryIP   Field = "COUNTRY_IP"
	IdentityID  Field = "IDENTITY_ID"
	Mobile      Field = "MOBILE"
	Amount      Field = "AMOUNT"
)

var known = map[Field]struct{}{
	IP: {}, BIN: {}, CardToken: {}, PartyID: {}, Email: {}, LastDigits: {}, Fingerprint: {},
	ShopID: {}, CountryBank: {}, Currency: {}, CountryIP: {}, IdentityID: {}, Mobile: {}, Amount: {},
}

// Parse resolves a field name case-insensitively. Unknown names fail with
// CodeUnknownField.
func Parse(name string) (Field, error) {
	f := Field(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := known[f]; !ok {
		return "", dErrors.Newf(dErrors.CodeUnknownField, "unknown field %q", name)
	}
	return f, nil
}

// Transaction is the attribute record of the event being scored.
type Transaction struct {
	IP          string
	BIN         string
	CardToken   string
	PartyID     string
	Email       string
	LastDigits  string
	Fingerprint string
	ShopID      string
	CountryBank string
	Currency    string
	CountryIP   string
	IdentityID  string
	Mobile      string
	Amount      decimal.Decimal
}

// Value returns the transaction's value for f. Absent attributes are "".
func (t Transaction) Value(f Field) string {
	switch f {
	case IP:
		return t.IP
	case BIN:
		return t.BIN
	case CardToken:
		return t.CardToken
	case PartyID:
		return t.PartyID
	case Email:
		return t.Email
	case LastDigits:
		return t.LastDigits
	case Fingerprint:
		return t.Fingerprint
	case ShopID:
		return t.ShopID
	case CountryBank:
		return t.CountryBank
	case Currency:
		return t.Currency
	case CountryIP:
		return t.CountryIP
	case IdentityID:
		return t.IdentityID
	case Mobile:
		return t.Mobile
	case Amount:
		return t.Amount.String()
	default:
		return ""
	}
}

// Lookup parses name and returns its value.
func (t Transaction) Lookup(name string) (Field, string, error) {
	f, err := Parse(name)
	if err != nil {
		return "", "", err
	}
	return f, t.Value(f), nil
}
