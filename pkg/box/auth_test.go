package box

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "should generate RSA key")
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return key, pemBytes
}

func TestNewTokenSource_BadKey(t *testing.T) {
	_, err := NewTokenSource("cid", "secret", "kid", []byte("not a key"), "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "error parsing private key")
}

func TestTokenSource_BuildAssertion(t *testing.T) {
	key, pemBytes := testKeyPEM(t)

	ts, err := NewTokenSource("cid", "secret", "kid1", pemBytes, "https://example.test/oauth2/token")
	require.NoError(t, err)

	assertion, err := ts.buildAssertion("999999", "enterprise")
	require.NoError(t, err)

	parsed, err := jwt.Parse(assertion, func(token *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodRSA{}, token.Method, "assertion must be RS256 signed")
		return &key.PublicKey, nil
	})
	require.NoError(t, err, "assertion should verify against the signing key")
	require.True(t, parsed.Valid)

	assert.Equal(t, "kid1", parsed.Header["kid"], "the registered public key id must travel in the header")

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "cid", claims["iss"])
	assert.Equal(t, "999999", claims["sub"])
	assert.Equal(t, "enterprise", claims["box_sub_type"])
	assert.Equal(t, "https://example.test/oauth2/token", claims["aud"])
	assert.NotEmpty(t, claims["jti"], "each assertion must carry a unique jti")

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(assertionLifetime), exp.Time, 5*time.Second)
}

func TestTokenSource_AssertionsAreOneTime(t *testing.T) {
	_, pemBytes := testKeyPEM(t)
	ts, err := NewTokenSource("cid", "secret", "kid1", pemBytes, "")
	require.NoError(t, err)

	first, err := ts.buildAssertion("999999", "enterprise")
	require.NoError(t, err)
	second, err := ts.buildAssertion("999999", "enterprise")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each assertion should carry a fresh jti")
}

func TestTokenSource_EnterpriseToken(t *testing.T) {
	_, pemBytes := testKeyPEM(t)

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"assertion":     r.PostFormValue("assertion"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-123",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	ts, err := NewTokenSource("cid", "secret", "kid1", pemBytes, server.URL)
	require.NoError(t, err)

	token, err := ts.EnterpriseToken(context.Background(), "999999")
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)

	assert.Equal(t, jwtGrantType, gotForm["grant_type"])
	assert.Equal(t, "cid", gotForm["client_id"])
	assert.Equal(t, "secret", gotForm["client_secret"])
	assert.NotEmpty(t, gotForm["assertion"])
}

func TestTokenSource_TokenFailure(t *testing.T) {
	_, pemBytes := testKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	ts, err := NewTokenSource("cid", "secret", "kid1", pemBytes, server.URL)
	require.NoError(t, err)

	_, err = ts.UserToken(context.Background(), "20001")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
