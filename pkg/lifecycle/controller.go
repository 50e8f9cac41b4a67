package lifecycle

import (
	"context"
	"fmt"

	"github.com/watfordsuzy/boxkit/internal/logger"
	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/config"
)

// Controller orchestrates the three nested lifetimes: run, test class,
// and single test. It owns the session state and the two scope stacks,
// and is the single entry point test code uses to execute commands.
//
// The controller assumes sequential test execution within one process;
// it provides no internal locking.
type Controller struct {
	session    *Session
	classStack *stack
	testStack  *stack
}

// Initialize performs run start: it resolves configuration into an
// authenticated session. It must complete before any class or test
// scope begins; failure is fatal to the run.
func Initialize(ctx context.Context, cfg *config.Config) (*Controller, error) {
	session, err := NewSession(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("run initialization failed: %w", err)
	}
	return NewController(session), nil
}

// NewController wraps an established session. No scope is active until
// BeginClass/BeginTest are called.
func NewController(session *Session) *Controller {
	return &Controller{session: session}
}

// Session returns the run's session state.
func (c *Controller) Session() *Session {
	return c.session
}

// ClientFor routes an access level to the matching client handle.
func (c *Controller) ClientFor(level AccessLevel) box.Client {
	return c.session.ClientFor(level)
}

// Execute runs a command with its routed client. When the command is
// reversible and succeeds, it is pushed onto the stack owning its
// scope. When Execute fails nothing is pushed: work that never
// completed has nothing to undo.
func (c *Controller) Execute(ctx context.Context, cmd Command) (string, error) {
	disposable, reversible := cmd.(Disposable)
	if reversible && c.stackFor(disposable.Scope()) == nil {
		return "", fmt.Errorf("no active %s scope for %T", disposable.Scope(), cmd)
	}

	id, err := cmd.Execute(ctx, c.ClientFor(cmd.AccessLevel()))
	if err != nil {
		return "", err
	}

	if reversible {
		c.stackFor(disposable.Scope()).push(disposable)
	}
	return id, nil
}

// BeginClass enters a class scope with a fresh, empty stack. Entries
// leaked by a previously failed class drain are discarded, never merged
// into the new scope.
func (c *Controller) BeginClass() {
	c.warnLeaked(c.classStack, ScopeClass)
	c.classStack = newStack()
}

// EndClass drains the class-scope stack in reverse order and discards
// it. A dispose failure propagates; the class teardown fails.
func (c *Controller) EndClass(ctx context.Context) error {
	return c.endScope(ctx, ScopeClass)
}

// BeginTest enters a test scope with a fresh, empty stack.
func (c *Controller) BeginTest() {
	c.warnLeaked(c.testStack, ScopeTest)
	c.testStack = newStack()
}

// EndTest drains the test-scope stack in reverse order and discards it.
// A dispose failure propagates; the test teardown fails.
func (c *Controller) EndTest(ctx context.Context) error {
	return c.endScope(ctx, ScopeTest)
}

// Shutdown performs run end. If this run created the shared test user
// its deletion is attempted; a failure there is logged and swallowed —
// deleting a user can legitimately fail while content still references
// it, and that must not fail an otherwise green run. This is the only
// tolerated teardown failure in the system.
func (c *Controller) Shutdown(ctx context.Context) {
	if !c.session.createdUser {
		return
	}
	if err := c.session.admin.DeleteUser(ctx, c.session.userID, true); err != nil {
		logger.WarnWithFields("failed to delete shared test user", map[string]interface{}{
			"userID": c.session.userID,
			"error":  err.Error(),
		})
	}
}

// ScopeDepth returns the number of tracked commands in the stack owning
// the given scope, or zero when that scope is not active.
func (c *Controller) ScopeDepth(scope Scope) int {
	s := c.stackFor(scope)
	if s == nil {
		return 0
	}
	return s.len()
}

func (c *Controller) stackFor(scope Scope) *stack {
	if scope == ScopeClass {
		return c.classStack
	}
	return c.testStack
}

func (c *Controller) endScope(ctx context.Context, scope Scope) error {
	s := c.stackFor(scope)
	if s == nil {
		return nil
	}
	err := s.drain(ctx, c.ClientFor)
	if err == nil {
		c.setStack(scope, nil)
	}
	// On failure the partially drained stack is kept so the leak stays
	// observable; the next scope entry discards it with a warning.
	return err
}

func (c *Controller) setStack(scope Scope, s *stack) {
	if scope == ScopeClass {
		c.classStack = s
	} else {
		c.testStack = s
	}
}

func (c *Controller) warnLeaked(s *stack, scope Scope) {
	if s != nil && s.len() > 0 {
		logger.WarnWithFields("discarding leaked commands from failed teardown", map[string]interface{}{
			"scope":   scope.String(),
			"entries": s.len(),
		})
	}
}
