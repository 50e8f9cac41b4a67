// Package lifecycle implements the scoped resource lifecycle manager:
// it executes provisioning commands against routed client handles,
// tracks every reversible command it ran, and guarantees reverse-order
// teardown at test, class, and run boundaries.
package lifecycle

import (
	"context"

	"github.com/watfordsuzy/boxkit/pkg/box"
)

// AccessLevel selects which credentialed client handle executes a
// command. The zero value is AccessUser, matching the default for
// commands that do not care.
type AccessLevel int

const (
	// AccessUser executes with the scoped test-user client.
	AccessUser AccessLevel = iota
	// AccessAdmin executes with the privileged service-account client.
	AccessAdmin
)

// String returns the access level name.
func (l AccessLevel) String() string {
	switch l {
	case AccessAdmin:
		return "admin"
	default:
		return "user"
	}
}

// Scope is the lifetime boundary that owns a reversible command's
// cleanup. The zero value is ScopeTest.
type Scope int

const (
	// ScopeTest cleans up when the current test ends.
	ScopeTest Scope = iota
	// ScopeClass cleans up when the current test class ends.
	ScopeClass
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeClass:
		return "class"
	default:
		return "test"
	}
}

// Command is a unit of provisioning work. Execute performs the remote
// side effect and returns the identifier of the created resource. A
// command's access level is fixed at construction.
type Command interface {
	AccessLevel() AccessLevel
	Execute(ctx context.Context, client box.Client) (string, error)
}

// Disposable is a Command whose side effect can be undone. Its scope
// determines which stack owns the cleanup once Execute succeeds; like
// the access level, it is fixed at construction.
type Disposable interface {
	Command
	Scope() Scope
	Dispose(ctx context.Context, client box.Client) error
}
