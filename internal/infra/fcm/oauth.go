package fcm

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pairpost/config"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	assertionLifetime = time.Hour
)

// tokenSource exchanges a signed service-account assertion for a short-lived
// OAuth2 access token. Every call performs a fresh exchange; tokens are not
// cached, matching the short-lived request scope they serve.
type tokenSource struct {
	cfg    *config.FirebaseConfig
	client *http.Client
	now    func() time.Time
}

func newTokenSource(cfg *config.FirebaseConfig, client *http.Client) *tokenSource {
	return &tokenSource{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

// accessToken mints a bearer token for the FCM v1 API. Missing credentials
// surface as a configuration error here, at first use, rather than at
// startup, so the registrar-shaped deployments without Firebase secrets can
// still boot the shared wiring.
func (s *tokenSource) accessToken(ctx context.Context) (string, error) {
	if s.cfg == nil ||
		strings.TrimSpace(s.cfg.ProjectID) == "" ||
		strings.TrimSpace(s.cfg.ClientEmail) == "" ||
		strings.TrimSpace(s.cfg.PrivateKey) == "" {
		return "", domainerrors.ErrConfiguration.WithMessage("Firebase credentials not configured")
	}

	privateKey, err := parsePrivateKey(NormalizePrivateKey(s.cfg.PrivateKey))
	if err != nil {
		return "", domainerrors.ErrConfiguration.WithMessage("invalid Firebase private key")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.cfg.ClientEmail,
		"scope": messagingScope,
		"aud":   s.cfg.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
	if err != nil {
		return "", errors.Wrap(err, "sign token assertion")
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", domainerrors.NewUpstreamAuthError(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read token response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", domainerrors.NewUpstreamAuthError(string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", domainerrors.NewUpstreamAuthError("malformed token response")
	}
	if payload.AccessToken == "" {
		return "", domainerrors.NewUpstreamAuthError("no access token returned")
	}

	return payload.AccessToken, nil
}

// parsePrivateKey decodes a PEM block and parses the RSA key inside. Google
// issues PKCS#8 keys; PKCS#1 is kept as a fallback for hand-converted keys.
func parsePrivateKey(pemKey string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not an RSA key")
		}

		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}

	return key, nil
}
