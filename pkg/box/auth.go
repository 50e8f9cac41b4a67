package box

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenURL is the Box OAuth2 token endpoint.
const DefaultTokenURL = "https://api.box.com/oauth2/token"

const jwtGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// assertionLifetime bounds the validity of a signed assertion. Box
// rejects assertions with an exp more than 60 seconds out.
const assertionLifetime = 30 * time.Second

// TokenSource exchanges RS256-signed JWT assertions for access tokens
// (Box server authentication). It is safe to reuse; each call mints a
// fresh assertion.
type TokenSource struct {
	clientID     string
	clientSecret string
	publicKeyID  string
	key          *rsa.PrivateKey
	tokenURL     string
	timeout      time.Duration
}

// NewTokenSource builds a TokenSource from the application credentials
// and the PEM-encoded RSA private key registered with the application.
func NewTokenSource(clientID, clientSecret, publicKeyID string, privateKeyPEM []byte, tokenURL string) (*TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("error parsing private key: %w", err)
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		publicKeyID:  publicKeyID,
		key:          key,
		tokenURL:     tokenURL,
		timeout:      DefaultTimeout,
	}, nil
}

// EnterpriseToken returns an access token for the enterprise service
// account.
func (ts *TokenSource) EnterpriseToken(ctx context.Context, enterpriseID string) (string, error) {
	return ts.token(ctx, enterpriseID, "enterprise")
}

// UserToken returns an access token scoped to a single managed user.
func (ts *TokenSource) UserToken(ctx context.Context, userID string) (string, error) {
	return ts.token(ctx, userID, "user")
}

func (ts *TokenSource) token(ctx context.Context, sub, subType string) (string, error) {
	assertion, err := ts.buildAssertion(sub, subType)
	if err != nil {
		return "", err
	}

	agent := fiber.Post(ts.tokenURL)
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(ts.timeout)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("grant_type", jwtGrantType)
	args.Set("client_id", ts.clientID)
	args.Set("client_secret", ts.clientSecret)
	args.Set("assertion", assertion)
	agent.Form(args)

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("error requesting token: %w", errs[0])
	}
	if statusCode < 200 || statusCode >= 300 {
		return "", &APIError{Status: statusCode, Message: string(body)}
	}

	var response struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error decoding token response: %w", err)
	}
	if response.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}
	return response.AccessToken, nil
}

// buildAssertion signs a one-time JWT assertion for the given subject.
func (ts *TokenSource) buildAssertion(sub, subType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":          ts.clientID,
		"sub":          sub,
		"box_sub_type": subType,
		"aud":          ts.tokenURL,
		"jti":          uuid.New().String(),
		"iat":          now.Unix(),
		"exp":          now.Add(assertionLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if ts.publicKeyID != "" {
		token.Header["kid"] = ts.publicKeyID
	}

	signed, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("error signing assertion: %w", err)
	}
	return signed, nil
}
