package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/config"
)

// Session is the process-wide state established once at run start: one
// privileged admin handle, one handle scoped to the shared test user,
// and the record of whether this run created that user. It is read-only
// after construction.
type Session struct {
	admin       box.Client
	user        box.Client
	userID      string
	createdUser bool
}

// NewSession authenticates against the configured enterprise and
// resolves the shared test user, creating one when the configuration
// does not pin a userID. Any failure here is fatal to the run.
func NewSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokenSource, err := box.NewTokenSource(
		cfg.BoxAppSettings.ClientID,
		cfg.BoxAppSettings.ClientSecret,
		cfg.BoxAppSettings.AppAuth.PublicKeyID,
		[]byte(cfg.BoxAppSettings.AppAuth.PrivateKey),
		cfg.TokenURL,
	)
	if err != nil {
		return nil, err
	}

	token, err := tokenSource.EnterpriseToken(ctx, cfg.EnterpriseID)
	if err != nil {
		return nil, fmt.Errorf("error authenticating enterprise session: %w", err)
	}

	admin, err := box.NewClient(&box.Options{
		BaseURL:     cfg.BaseURL,
		UploadURL:   cfg.UploadURL,
		AccessToken: token,
	})
	if err != nil {
		return nil, err
	}

	return newSession(ctx, admin, cfg.UserID)
}

// newSession finishes session construction from an established admin
// handle. Tests use it to point sessions at fakes.
func newSession(ctx context.Context, admin box.Client, userID string) (*Session, error) {
	created := false
	if userID == "" {
		user, err := admin.CreateUser(ctx, box.CreateUserRequest{
			Name:                 "boxkit test user " + uuid.NewString()[:8],
			IsPlatformAccessOnly: true,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating shared test user: %w", err)
		}
		userID = user.ID
		created = true
	}

	return &Session{
		admin:       admin,
		user:        admin.AsUser(userID),
		userID:      userID,
		createdUser: created,
	}, nil
}

// Admin returns the privileged service-account client handle.
func (s *Session) Admin() box.Client {
	return s.admin
}

// User returns the client handle scoped to the shared test user.
func (s *Session) User() box.Client {
	return s.user
}

// UserID returns the identifier of the shared test user.
func (s *Session) UserID() string {
	return s.userID
}

// CreatedUser reports whether this run created the shared test user and
// therefore owns its deletion at run end.
func (s *Session) CreatedUser() bool {
	return s.createdUser
}

// ClientFor routes an access level to the matching client handle.
// Unrecognized levels fall back to the user handle, which is the safe
// default for provisioning commands.
func (s *Session) ClientFor(level AccessLevel) box.Client {
	if level == AccessAdmin {
		return s.admin
	}
	return s.user
}
