package box_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watfordsuzy/boxkit/internal/mocks"
	"github.com/watfordsuzy/boxkit/pkg/box"
)

func newTestClient(t *testing.T) (*box.APIClient, *mocks.BoxAPI) {
	t.Helper()
	api := mocks.NewBoxAPI()
	t.Cleanup(api.Close)

	client, err := box.NewClient(api.ClientOptions())
	require.NoError(t, err, "Failed to create API client")
	return client, api
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := box.NewClient(nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClient_GetCurrentUser(t *testing.T) {
	client, _ := newTestClient(t)

	user, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.ServiceAccountID, user.ID)
}

func TestClient_UserLifecycle(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	user, err := client.CreateUser(ctx, box.CreateUserRequest{
		Name:                 "kit-user",
		IsPlatformAccessOnly: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "kit-user", user.Name)
	assert.Equal(t, 1, api.UserCount())

	require.NoError(t, client.DeleteUser(ctx, user.ID, true))
	assert.Equal(t, 0, api.UserCount())
}

func TestClient_AsUser(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	user, err := client.CreateUser(ctx, box.CreateUserRequest{Name: "scoped"})
	require.NoError(t, err)

	scoped := client.AsUser(user.ID)
	current, err := scoped.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID, "As-User requests should act as the managed user")

	// The original client is unaffected.
	current, err = client.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, mocks.ServiceAccountID, current.ID)
}

func TestClient_FolderLifecycle(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	folder, err := client.CreateFolder(ctx, box.CreateFolderRequest{
		Name:   "kit-folder",
		Parent: box.ItemReference{ID: "0"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, "kit-folder", folder.Name)
	require.NotNil(t, folder.Parent)
	assert.Equal(t, "0", folder.Parent.ID)
	assert.Equal(t, 1, api.FolderCount())

	require.NoError(t, client.DeleteFolder(ctx, folder.ID, true))
	assert.Equal(t, 0, api.FolderCount())
}

func TestClient_UploadFile(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	folder, err := client.CreateFolder(ctx, box.CreateFolderRequest{
		Name:   "uploads",
		Parent: box.ItemReference{ID: "0"},
	})
	require.NoError(t, err)

	content := []byte("hello, box")
	file, err := client.UploadFile(ctx, "hello.txt", folder.ID, content)
	require.NoError(t, err)
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "hello.txt", file.Name)
	assert.Equal(t, int64(len(content)), file.Size)
	assert.Equal(t, 1, api.FileCount())

	require.NoError(t, client.DeleteFile(ctx, file.ID))
	assert.Equal(t, 0, api.FileCount())
}

func TestClient_RetentionPolicyLifecycle(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	policy, err := client.CreateRetentionPolicy(ctx, box.CreateRetentionPolicyRequest{
		PolicyName:        "kit-policy",
		PolicyType:        "finite",
		RetentionLength:   "1",
		DispositionAction: "remove_retention",
	})
	require.NoError(t, err)
	assert.Equal(t, "active", policy.Status)

	retired, err := client.RetireRetentionPolicy(ctx, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, "retired", retired.Status)
}

func TestClient_ErrorMapping(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.DeleteFile(context.Background(), "does-not-exist")
	require.Error(t, err)

	var apiErr *box.APIError
	require.ErrorAs(t, err, &apiErr, "non-2xx responses should surface as APIError")
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.True(t, box.IsNotFound(err))
}

func TestClient_ForcedFailure(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	folder, err := client.CreateFolder(ctx, box.CreateFolderRequest{
		Name:   "sticky",
		Parent: box.ItemReference{ID: "0"},
	})
	require.NoError(t, err)

	api.FailWith(http.StatusConflict, http.MethodDelete, "/2.0/folders/")
	err = client.DeleteFolder(ctx, folder.ID, true)
	require.Error(t, err)

	var apiErr *box.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}
