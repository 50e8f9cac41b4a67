package box

// ItemReference identifies a parent container in create requests.
type ItemReference struct {
	ID string `json:"id"`
}

// Folder is the subset of the folder representation the kit consumes.
type Folder struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Parent *ItemReference `json:"parent,omitempty"`
}

// File is the subset of the file representation the kit consumes.
type File struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Size   int64          `json:"size"`
	Parent *ItemReference `json:"parent,omitempty"`
}

// FileCollection wraps upload responses, which return a page of entries.
type FileCollection struct {
	TotalCount int    `json:"total_count"`
	Entries    []File `json:"entries"`
}

// User is the subset of the user representation the kit consumes.
type User struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

// RetentionPolicy is the subset of the retention policy representation
// the kit consumes.
type RetentionPolicy struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	PolicyName        string `json:"policy_name"`
	PolicyType        string `json:"policy_type"`
	RetentionLength   string `json:"retention_length,omitempty"`
	DispositionAction string `json:"disposition_action,omitempty"`
	Status            string `json:"status,omitempty"`
}

// CreateFolderRequest is the body for folder creation.
type CreateFolderRequest struct {
	Name   string        `json:"name"`
	Parent ItemReference `json:"parent"`
}

// CreateUserRequest is the body for app user creation.
type CreateUserRequest struct {
	Name                 string `json:"name"`
	IsPlatformAccessOnly bool   `json:"is_platform_access_only"`
}

// CreateRetentionPolicyRequest is the body for retention policy creation.
type CreateRetentionPolicyRequest struct {
	PolicyName        string `json:"policy_name"`
	PolicyType        string `json:"policy_type"`
	RetentionLength   string `json:"retention_length,omitempty"`
	DispositionAction string `json:"disposition_action"`
}

// uploadAttributes is the multipart "attributes" part of a file upload.
type uploadAttributes struct {
	Name   string        `json:"name"`
	Parent ItemReference `json:"parent"`
}
