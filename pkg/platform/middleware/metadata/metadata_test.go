package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.1.1.1, 10.0.0.1"}, "10.0.0.2:1", "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": " 2.2.2.2 "}, "10.0.0.2:1", "2.2.2.2"},
		{"remote v4", nil, "3.3.3.3:5555", "3.3.3.3"},
		{"remote v6", nil, "[::1]:5555", "::1"},
		{"remote without port", nil, "4.4.4.4", "4.4.4.4"},
		{"empty forwarded hop", map[string]string{"X-Forwarded-For": " ,10.0.0.1", "X-Real-IP": "5.5.5.5"}, "10.0.0.2:1", "5.5.5.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIPFromRequest(r))
		})
	}
}
