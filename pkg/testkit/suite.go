package testkit

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
	"github.com/watfordsuzy/boxkit/pkg/resources"
)

// Suite is the base type for integration test suites against a Box
// enterprise. Embed it and testify drives the class and test scopes:
//
//	type FolderSuite struct {
//	    testkit.Suite
//	}
//
//	func TestFolderSuite(t *testing.T) {
//	    suite.Run(t, new(FolderSuite))
//	}
//
// Leaving Controller nil makes SetupSuite initialize the shared
// process-wide run from the environment; tests of the kit itself inject
// a controller pointed at a mock server.
type Suite struct {
	suite.Suite

	// Controller drives the scopes. Set before suite.Run to override
	// the shared run controller.
	Controller *lifecycle.Controller

	// Context management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// SetupSuite begins the class scope, establishing the run first when no
// controller was injected.
func (s *Suite) SetupSuite() {
	s.ctx, s.cancelFunc = context.WithTimeout(context.Background(), DefaultTestTimeout)

	if s.Controller == nil {
		ctrl, err := Run(s.ctx)
		s.Require().NoError(err, "run initialization must succeed before any test")
		s.Controller = ctrl
	}
	s.Controller.BeginClass()
}

// TearDownSuite drains the class scope in reverse order. A dispose
// failure fails the teardown: an undisposed resource is environment
// drift that must surface.
func (s *Suite) TearDownSuite() {
	err := s.Controller.EndClass(s.ctx)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.Require().NoError(err, "class teardown leaked resources")
}

// SetupTest begins the test scope.
func (s *Suite) SetupTest() {
	s.Controller.BeginTest()
}

// TearDownTest drains the test scope in reverse order, failing the test
// on any dispose failure.
func (s *Suite) TearDownTest() {
	s.Require().NoError(s.Controller.EndTest(s.ctx), "test teardown leaked resources")
}

// Context returns the suite's context, which is automatically canceled
// when the suite finishes.
func (s *Suite) Context() context.Context {
	return s.ctx
}

// WithTimeout returns a new context with the specified timeout, as a
// child of the suite's context.
func (s *Suite) WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, timeout)
}

// Admin returns the privileged client handle.
func (s *Suite) Admin() box.Client {
	return s.Controller.Session().Admin()
}

// User returns the client handle scoped to the shared test user.
func (s *Suite) User() box.Client {
	return s.Controller.Session().User()
}

// CreateFolder creates a uniquely named folder owned by the given
// scope, failing the test on error.
func (s *Suite) CreateFolder(label, parentID string, scope lifecycle.Scope) box.Folder {
	folder, err := resources.CreateFolder(s.ctx, s.Controller, label, parentID, scope)
	s.Require().NoError(err, "should create folder without error")
	return folder
}

// CreateFile uploads a uniquely named file owned by the given scope,
// failing the test on error.
func (s *Suite) CreateFile(label, parentID string, content []byte, scope lifecycle.Scope) box.File {
	file, err := resources.CreateFile(s.ctx, s.Controller, label, parentID, content, scope)
	s.Require().NoError(err, "should create file without error")
	return file
}

// CreateRetentionPolicy creates a uniquely named retention policy owned
// by the given scope, failing the test on error.
func (s *Suite) CreateRetentionPolicy(label string, scope lifecycle.Scope) box.RetentionPolicy {
	policy, err := resources.CreateRetentionPolicy(s.ctx, s.Controller, label, scope)
	s.Require().NoError(err, "should create retention policy without error")
	return policy
}

// DeleteFile deletes a file immediately without registering cleanup,
// failing the test on error.
func (s *Suite) DeleteFile(fileID string) {
	s.Require().NoError(resources.DeleteFile(s.ctx, s.Controller, fileID), "should delete file without error")
}
