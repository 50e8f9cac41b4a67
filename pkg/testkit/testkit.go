// Package testkit wires the lifecycle controller into testify suites:
// run start happens once per process, class scopes map to SetupSuite /
// TearDownSuite, and test scopes map to SetupTest / TearDownTest.
package testkit

import (
	"context"
	"sync"
	"time"

	"github.com/watfordsuzy/boxkit/internal/logger"
	"github.com/watfordsuzy/boxkit/pkg/config"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
)

// DefaultTestTimeout is the default timeout for test suites.
const DefaultTestTimeout = 30 * time.Second

var (
	runOnce sync.Once
	runCtrl *lifecycle.Controller
	runErr  error
)

// Run performs run start exactly once per process, resolving the
// configuration from the environment. Every suite in the process shares
// the returned controller and its session state.
func Run(ctx context.Context) (*lifecycle.Controller, error) {
	runOnce.Do(func() {
		logger.Initialize()
		var cfg *config.Config
		cfg, runErr = config.FromEnv()
		if runErr != nil {
			return
		}
		runCtrl, runErr = lifecycle.Initialize(ctx, cfg)
	})
	return runCtrl, runErr
}

// Shutdown performs run end: the shared test user is deleted when this
// run created it, with any failure logged and swallowed. Call from
// TestMain after m.Run.
func Shutdown(ctx context.Context) {
	if runCtrl != nil {
		runCtrl.Shutdown(ctx)
	}
}
