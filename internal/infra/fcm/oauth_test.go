package fcm

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pairpost/config"
	domainerrors "pairpost/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func testFirebaseConfig(t *testing.T, tokenURL string) *config.FirebaseConfig {
	t.Helper()

	return &config.FirebaseConfig{
		ProjectID:   "pairpost-test",
		ClientEmail: "svc@pairpost-test.iam.gserviceaccount.com",
		PrivateKey:  testPrivateKeyPEM(t),
		TokenURL:    tokenURL,
	}
}

func TestAccessToken_MissingCredentials(t *testing.T) {
	source := newTokenSource(&config.FirebaseConfig{ProjectID: "pairpost-test"}, http.DefaultClient)

	_, err := source.accessToken(context.Background())

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIGURATION_ERROR", appErr.ErrorCode())
}

func TestAccessToken_Success(t *testing.T) {
	var gotGrantType, gotContentType string
	var gotAssertion bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotGrantType = r.PostFormValue("grant_type")
		gotAssertion = r.PostFormValue("assertion") != ""
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	source := newTokenSource(testFirebaseConfig(t, server.URL), server.Client())

	token, err := source.accessToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ya29.test", token)
	assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", gotGrantType)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.True(t, gotAssertion)
}

func TestAccessToken_RejectedExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	source := newTokenSource(testFirebaseConfig(t, server.URL), server.Client())

	_, err := source.accessToken(context.Background())

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_AUTH_FAILED", appErr.ErrorCode())
	assert.Contains(t, err.Error(), "failed to get access token")
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestAccessToken_MissingAccessTokenField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer server.Close()

	source := newTokenSource(testFirebaseConfig(t, server.URL), server.Client())

	_, err := source.accessToken(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access token returned")
}

func TestAccessToken_EscapedKeyStillSigns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.test"}`))
	}))
	defer server.Close()

	cfg := testFirebaseConfig(t, server.URL)
	// Simulate a key pasted into an env var with literal \n sequences.
	cfg.PrivateKey = strings.ReplaceAll(cfg.PrivateKey, "\n", `\n`)

	source := newTokenSource(cfg, server.Client())

	token, err := source.accessToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ya29.test", token)
}
