package resources

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
)

// UniqueName appends a random identifier to a caller-supplied label.
// Cross-test collisions are astronomically unlikely, but callers must
// not rely on the human-readable part being stable.
func UniqueName(label string) string {
	return fmt.Sprintf("%s-%s", label, uuid.NewString())
}

// CreateFolder creates a uniquely named folder under parentID and
// registers its deletion with the given scope.
func CreateFolder(ctx context.Context, ctrl *lifecycle.Controller, label, parentID string, scope lifecycle.Scope) (box.Folder, error) {
	cmd := NewCreateFolderCommand(UniqueName(label), parentID, scope, lifecycle.AccessUser)
	if _, err := ctrl.Execute(ctx, cmd); err != nil {
		return box.Folder{}, err
	}
	return cmd.Folder, nil
}

// CreateFile uploads content as a uniquely named file under parentID
// and registers its deletion with the given scope.
func CreateFile(ctx context.Context, ctrl *lifecycle.Controller, label, parentID string, content []byte, scope lifecycle.Scope) (box.File, error) {
	cmd := NewCreateFileCommand(UniqueName(label), parentID, content, scope, lifecycle.AccessUser)
	if _, err := ctrl.Execute(ctx, cmd); err != nil {
		return box.File{}, err
	}
	return cmd.File, nil
}

// CreateRetentionPolicy creates a uniquely named finite retention
// policy and registers its retirement with the given scope. Executes as
// admin.
func CreateRetentionPolicy(ctx context.Context, ctrl *lifecycle.Controller, label string, scope lifecycle.Scope) (box.RetentionPolicy, error) {
	cmd := NewCreateRetentionPolicyCommand(box.CreateRetentionPolicyRequest{
		PolicyName:        UniqueName(label),
		PolicyType:        "finite",
		RetentionLength:   "1",
		DispositionAction: "remove_retention",
	}, scope)
	if _, err := ctrl.Execute(ctx, cmd); err != nil {
		return box.RetentionPolicy{}, err
	}
	return cmd.Policy, nil
}

// DeleteFile deletes a file immediately without registering any
// cleanup.
func DeleteFile(ctx context.Context, ctrl *lifecycle.Controller, fileID string) error {
	_, err := ctrl.Execute(ctx, NewDeleteFileCommand(fileID, lifecycle.AccessUser))
	return err
}
