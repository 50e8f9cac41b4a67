package testkit_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/watfordsuzy/boxkit/internal/logger"
	"github.com/watfordsuzy/boxkit/internal/mocks"
	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/config"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
	"github.com/watfordsuzy/boxkit/pkg/resources"
	"github.com/watfordsuzy/boxkit/pkg/testkit"
)

func TestRun_RequiresConfiguration(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvConfigFile, "")

	_, err := testkit.Run(context.Background())
	require.Error(t, err, "run start without configuration must be fatal")
}

// provisioningSuite exercises the class and test scopes the way a real
// integration suite would.
type provisioningSuite struct {
	testkit.Suite

	folder box.Folder
	file   box.File
}

func (s *provisioningSuite) TestProvisioning() {
	s.Require().Zero(s.Controller.ScopeDepth(lifecycle.ScopeTest), "test stack should start empty")

	s.folder = s.CreateFolder("e2e-folder", resources.RootFolderID, lifecycle.ScopeClass)
	s.Require().Equal(1, s.Controller.ScopeDepth(lifecycle.ScopeClass), "class stack should track the folder")

	s.file = s.CreateFile("e2e-file", s.folder.ID, []byte("payload"), lifecycle.ScopeTest)
	s.Require().Equal(1, s.Controller.ScopeDepth(lifecycle.ScopeTest), "test stack should track the file")
	s.Require().Equal(s.folder.ID, s.file.Parent.ID, "the file should nest under the class folder")
}

func (s *provisioningSuite) TestScopesResetBetweenTests() {
	// Runs after TestProvisioning: its test-scope file is gone, the
	// class-scope folder survives until the suite ends.
	s.Require().Zero(s.Controller.ScopeDepth(lifecycle.ScopeTest), "test stack should be fresh for every test")
	s.Require().Equal(1, s.Controller.ScopeDepth(lifecycle.ScopeClass), "class stack should persist across tests")
}

func TestEndToEndScenario(t *testing.T) {
	api := mocks.NewBoxAPI()
	defer api.Close()
	ctx := context.Background()

	// Run start with no userID in the config: a user is created and
	// the run owns it.
	ctrl, err := lifecycle.Initialize(ctx, api.Config())
	require.NoError(t, err)
	require.True(t, ctrl.Session().CreatedUser())
	require.Equal(t, 1, api.UserCount())

	s := &provisioningSuite{}
	s.Controller = ctrl
	suite.Run(t, s)

	// Everything provisioned by the suite is gone, in reverse order:
	// the test-scoped file before the class-scoped folder.
	assert.Equal(t, 0, api.FolderCount(), "class teardown should remove the folder")
	assert.Equal(t, 0, api.FileCount(), "test teardown should remove the file")
	require.Equal(t, []string{"file:" + s.file.ID, "folder:" + s.folder.ID}, api.Deletions)

	// Run end deletes the created user.
	ctrl.Shutdown(ctx)
	assert.Equal(t, 0, api.UserCount())
	assert.Equal(t, "user:"+ctrl.Session().UserID(), api.Deletions[len(api.Deletions)-1])
}

func TestShutdownToleratesUserDeletionFailure(t *testing.T) {
	api := mocks.NewBoxAPI()
	defer api.Close()
	ctx := context.Background()

	ctrl, err := lifecycle.Initialize(ctx, api.Config())
	require.NoError(t, err)
	require.True(t, ctrl.Session().CreatedUser())

	api.FailWith(http.StatusConflict, http.MethodDelete, "/2.0/users/")

	var buf bytes.Buffer
	logger.Initialize()
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	// The failure must be swallowed; the run still reports success.
	ctrl.Shutdown(ctx)

	assert.Equal(t, 1, api.UserCount(), "the user deletion failed remotely")
	assert.Contains(t, buf.String(), "failed to delete shared test user",
		"the failure should be observable only via the log")
}
