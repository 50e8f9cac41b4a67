package mocks

import (
	"context"
	"strconv"

	"github.com/watfordsuzy/boxkit/pkg/box"
)

// MockBoxClient implements box.Client for testing. Every method
// succeeds with a canned response unless the matching function field is
// set. The Label distinguishes handles when tests assert routing.
type MockBoxClient struct {
	Label string

	CreateUserFunc            func(ctx context.Context, req box.CreateUserRequest) (box.User, error)
	DeleteUserFunc            func(ctx context.Context, id string, force bool) error
	CreateFolderFunc          func(ctx context.Context, req box.CreateFolderRequest) (box.Folder, error)
	DeleteFolderFunc          func(ctx context.Context, id string, recursive bool) error
	UploadFileFunc            func(ctx context.Context, name, parentID string, content []byte) (box.File, error)
	DeleteFileFunc            func(ctx context.Context, id string) error
	CreateRetentionPolicyFunc func(ctx context.Context, req box.CreateRetentionPolicyRequest) (box.RetentionPolicy, error)
	RetireRetentionPolicyFunc func(ctx context.Context, id string) (box.RetentionPolicy, error)

	nextID int
}

var _ box.Client = &MockBoxClient{}

// NewMockBoxClient creates a labeled mock client.
func NewMockBoxClient(label string) *MockBoxClient {
	return &MockBoxClient{Label: label}
}

func (c *MockBoxClient) id() string {
	c.nextID++
	return c.Label + "-" + strconv.Itoa(c.nextID)
}

// GetCurrentUser returns a fixed user named after the label.
func (c *MockBoxClient) GetCurrentUser(_ context.Context) (box.User, error) {
	return box.User{ID: ServiceAccountID, Type: "user", Name: c.Label}, nil
}

// CreateUser is a mock implementation of the CreateUser method
func (c *MockBoxClient) CreateUser(ctx context.Context, req box.CreateUserRequest) (box.User, error) {
	if c.CreateUserFunc != nil {
		return c.CreateUserFunc(ctx, req)
	}
	return box.User{ID: c.id(), Type: "user", Name: req.Name}, nil
}

// DeleteUser is a mock implementation of the DeleteUser method
func (c *MockBoxClient) DeleteUser(ctx context.Context, id string, force bool) error {
	if c.DeleteUserFunc != nil {
		return c.DeleteUserFunc(ctx, id, force)
	}
	return nil
}

// CreateFolder is a mock implementation of the CreateFolder method
func (c *MockBoxClient) CreateFolder(ctx context.Context, req box.CreateFolderRequest) (box.Folder, error) {
	if c.CreateFolderFunc != nil {
		return c.CreateFolderFunc(ctx, req)
	}
	return box.Folder{ID: c.id(), Type: "folder", Name: req.Name, Parent: &req.Parent}, nil
}

// DeleteFolder is a mock implementation of the DeleteFolder method
func (c *MockBoxClient) DeleteFolder(ctx context.Context, id string, recursive bool) error {
	if c.DeleteFolderFunc != nil {
		return c.DeleteFolderFunc(ctx, id, recursive)
	}
	return nil
}

// UploadFile is a mock implementation of the UploadFile method
func (c *MockBoxClient) UploadFile(ctx context.Context, name, parentID string, content []byte) (box.File, error) {
	if c.UploadFileFunc != nil {
		return c.UploadFileFunc(ctx, name, parentID, content)
	}
	return box.File{ID: c.id(), Type: "file", Name: name, Size: int64(len(content)), Parent: &box.ItemReference{ID: parentID}}, nil
}

// DeleteFile is a mock implementation of the DeleteFile method
func (c *MockBoxClient) DeleteFile(ctx context.Context, id string) error {
	if c.DeleteFileFunc != nil {
		return c.DeleteFileFunc(ctx, id)
	}
	return nil
}

// CreateRetentionPolicy is a mock implementation of the CreateRetentionPolicy method
func (c *MockBoxClient) CreateRetentionPolicy(ctx context.Context, req box.CreateRetentionPolicyRequest) (box.RetentionPolicy, error) {
	if c.CreateRetentionPolicyFunc != nil {
		return c.CreateRetentionPolicyFunc(ctx, req)
	}
	return box.RetentionPolicy{ID: c.id(), Type: "retention_policy", PolicyName: req.PolicyName, Status: "active"}, nil
}

// RetireRetentionPolicy is a mock implementation of the RetireRetentionPolicy method
func (c *MockBoxClient) RetireRetentionPolicy(ctx context.Context, id string) (box.RetentionPolicy, error) {
	if c.RetireRetentionPolicyFunc != nil {
		return c.RetireRetentionPolicyFunc(ctx, id)
	}
	return box.RetentionPolicy{ID: id, Type: "retention_policy", Status: "retired"}, nil
}

// AsUser returns the same mock; routing tests only compare handles.
func (c *MockBoxClient) AsUser(_ string) box.Client {
	return c
}
