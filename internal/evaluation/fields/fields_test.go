package fields

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fraudgate/pkg/domain-errors"
)

func TestParse(t *testing.T) {
	f, err := Parse("card_token")
	require.NoError(t, err)
	assert.Equal(t, CardToken, f)

	f, err = Parse(" Country_Bank ")
	require.NoError(t, err)
	assert.Equal(t, CountryBank, f)

	_, err = Parse("shoe_size")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownField))
}

func TestTransaction_Lookup(t *testing.T) {
	tx := Transaction{
		IP:          "1.2.3.4",
		Email:       "a@b.c",
		CountryBank: "RUS",
		Amount:      decimal.RequireFromString("4500.50"),
	}

	tests := map[string]string{
		"ip":           "1.2.3.4",
		"EMAIL":        "a@b.c",
		"country_bank": "RUS",
		"amount":       "4500.5",
		"fingerprint":  "",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			_, got, err := tx.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, _, err := tx.Lookup("nope")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownField))
}
