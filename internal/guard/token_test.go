package guard

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestDecodeClaimsExtractsRole(t *testing.T) {
	token := makeToken(t, map[string]any{"role": "admin", "sub": "42"})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestDecodeClaimsMissingRole(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "42"})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestDecodeClaimsRejectsMalformedTokens(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"one segment":      "abc",
		"two segments":     "abc.def",
		"invalid base64":   "abc.!!!.ghi",
		"payload not json": "abc." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".ghi",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeClaims(token)
			assert.Error(t, err)
		})
	}
}
