package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fraudgate/pkg/domain-errors"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		code        string
		description string
	}{
		{"bad request keeps description", dErrors.New(dErrors.CodeBadRequest, "invalid input"), http.StatusBadRequest, "bad_request", "invalid input"},
		{"unknown field is a client error", dErrors.New(dErrors.CodeUnknownField, "no such field"), http.StatusBadRequest, "unknown_field", "no such field"},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "inspection deadline exceeded"), http.StatusGatewayTimeout, "timeout", "inspection deadline exceeded"},
		{"upstream failure", dErrors.Wrap(errors.New("dial"), dErrors.CodeExternalService, "geo unavailable"), http.StatusBadGateway, "external_service_error", "geo unavailable"},
		{"internal hides description", dErrors.New(dErrors.CodeInternal, "db failed"), http.StatusInternalServerError, "internal_error", ""},
		{"uncoded error is internal", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeEnvelope(t, w)
			assert.Equal(t, tc.code, body["error"])
			desc, ok := body["error_description"]
			if tc.description == "" {
				assert.False(t, ok)
			} else {
				assert.Equal(t, tc.description, desc)
			}
		})
	}
}

type pingRequest struct {
	Name string `json:"name"`
}

func (p *pingRequest) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	decode := func(body string) (*pingRequest, *httptest.ResponseRecorder) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		req, _ := DecodeAndPrepare[pingRequest](w, r, logger, context.Background(), "req-1")
		return req, w
	}

	t.Run("valid body is normalised", func(t *testing.T) {
		req, w := decode(`{"name":"  shop "}`)
		require.NotNil(t, req)
		assert.Equal(t, "shop", req.Name)
		assert.Equal(t, 0, w.Body.Len())
	})

	t.Run("malformed json", func(t *testing.T) {
		req, w := decode(`{"name":`)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeEnvelope(t, w)["error"])
	})

	t.Run("validation failure", func(t *testing.T) {
		req, w := decode(`{"name":" "}`)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeEnvelope(t, w)["error"])
	})
}
