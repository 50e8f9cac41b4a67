// Package resources provides the provisioning commands and helper
// constructors used by test bodies: each helper builds a uniquely named
// request, executes it through the lifecycle controller, and returns
// the created domain object. Cleanup is registered automatically.
package resources

import (
	"context"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
)

// RootFolderID is the identifier of the account root folder.
const RootFolderID = "0"

// CreateFolderCommand creates a folder and deletes it (recursively) on
// dispose.
type CreateFolderCommand struct {
	Name     string
	ParentID string
	Folder   box.Folder // populated by Execute

	scope lifecycle.Scope
	level lifecycle.AccessLevel
}

var _ lifecycle.Disposable = &CreateFolderCommand{}

// NewCreateFolderCommand builds a folder creation command.
func NewCreateFolderCommand(name, parentID string, scope lifecycle.Scope, level lifecycle.AccessLevel) *CreateFolderCommand {
	return &CreateFolderCommand{
		Name:     name,
		ParentID: parentID,
		scope:    scope,
		level:    level,
	}
}

// AccessLevel returns the client the command must execute with.
func (c *CreateFolderCommand) AccessLevel() lifecycle.AccessLevel { return c.level }

// Scope returns the lifetime that owns the folder's cleanup.
func (c *CreateFolderCommand) Scope() lifecycle.Scope { return c.scope }

// Execute creates the folder and returns its identifier.
func (c *CreateFolderCommand) Execute(ctx context.Context, client box.Client) (string, error) {
	folder, err := client.CreateFolder(ctx, box.CreateFolderRequest{
		Name:   c.Name,
		Parent: box.ItemReference{ID: c.ParentID},
	})
	if err != nil {
		return "", err
	}
	c.Folder = folder
	return folder.ID, nil
}

// Dispose deletes the folder and anything still inside it.
func (c *CreateFolderCommand) Dispose(ctx context.Context, client box.Client) error {
	return client.DeleteFolder(ctx, c.Folder.ID, true)
}

// CreateFileCommand uploads a file and deletes it on dispose.
type CreateFileCommand struct {
	Name     string
	ParentID string
	Content  []byte
	File     box.File // populated by Execute

	scope lifecycle.Scope
	level lifecycle.AccessLevel
}

var _ lifecycle.Disposable = &CreateFileCommand{}

// NewCreateFileCommand builds a file upload command.
func NewCreateFileCommand(name, parentID string, content []byte, scope lifecycle.Scope, level lifecycle.AccessLevel) *CreateFileCommand {
	return &CreateFileCommand{
		Name:     name,
		ParentID: parentID,
		Content:  content,
		scope:    scope,
		level:    level,
	}
}

// AccessLevel returns the client the command must execute with.
func (c *CreateFileCommand) AccessLevel() lifecycle.AccessLevel { return c.level }

// Scope returns the lifetime that owns the file's cleanup.
func (c *CreateFileCommand) Scope() lifecycle.Scope { return c.scope }

// Execute uploads the file and returns its identifier.
func (c *CreateFileCommand) Execute(ctx context.Context, client box.Client) (string, error) {
	file, err := client.UploadFile(ctx, c.Name, c.ParentID, c.Content)
	if err != nil {
		return "", err
	}
	c.File = file
	return file.ID, nil
}

// Dispose deletes the file.
func (c *CreateFileCommand) Dispose(ctx context.Context, client box.Client) error {
	return client.DeleteFile(ctx, c.File.ID)
}

// CreateRetentionPolicyCommand creates a retention policy and retires
// it on dispose. Retention policies are an admin-only surface.
type CreateRetentionPolicyCommand struct {
	Request box.CreateRetentionPolicyRequest
	Policy  box.RetentionPolicy // populated by Execute

	scope lifecycle.Scope
}

var _ lifecycle.Disposable = &CreateRetentionPolicyCommand{}

// NewCreateRetentionPolicyCommand builds a retention policy command.
func NewCreateRetentionPolicyCommand(req box.CreateRetentionPolicyRequest, scope lifecycle.Scope) *CreateRetentionPolicyCommand {
	return &CreateRetentionPolicyCommand{Request: req, scope: scope}
}

// AccessLevel is always admin: only the service account may manage
// retention policies.
func (c *CreateRetentionPolicyCommand) AccessLevel() lifecycle.AccessLevel {
	return lifecycle.AccessAdmin
}

// Scope returns the lifetime that owns the policy's retirement.
func (c *CreateRetentionPolicyCommand) Scope() lifecycle.Scope { return c.scope }

// Execute creates the policy and returns its identifier.
func (c *CreateRetentionPolicyCommand) Execute(ctx context.Context, client box.Client) (string, error) {
	policy, err := client.CreateRetentionPolicy(ctx, c.Request)
	if err != nil {
		return "", err
	}
	c.Policy = policy
	return policy.ID, nil
}

// Dispose retires the policy; the API offers no hard delete.
func (c *CreateRetentionPolicyCommand) Dispose(ctx context.Context, client box.Client) error {
	_, err := client.RetireRetentionPolicy(ctx, c.Policy.ID)
	return err
}

// DeleteFileCommand deletes a file immediately. It is not reversible
// and is never tracked by any scope stack.
type DeleteFileCommand struct {
	FileID string

	level lifecycle.AccessLevel
}

var _ lifecycle.Command = &DeleteFileCommand{}

// NewDeleteFileCommand builds a standalone file deletion command.
func NewDeleteFileCommand(fileID string, level lifecycle.AccessLevel) *DeleteFileCommand {
	return &DeleteFileCommand{FileID: fileID, level: level}
}

// AccessLevel returns the client the command must execute with.
func (c *DeleteFileCommand) AccessLevel() lifecycle.AccessLevel { return c.level }

// Execute deletes the file and returns its identifier.
func (c *DeleteFileCommand) Execute(ctx context.Context, client box.Client) (string, error) {
	if err := client.DeleteFile(ctx, c.FileID); err != nil {
		return "", err
	}
	return c.FileID, nil
}
