// Package box provides the API client for interacting with the Box API.
// It is a thin I/O wrapper: the lifecycle core treats it as an opaque,
// credentialed handle.
package box

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"
)

// Default Box API endpoints.
const (
	DefaultBaseURL   = "https://api.box.com/2.0"
	DefaultUploadURL = "https://upload.box.com/api/2.0"
)

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 30 * time.Second

// Client is the interface for the Box API client. The lifecycle core
// only ever routes commands to one of two Client handles; tests inject
// fakes through this interface.
type Client interface {
	// Users
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	DeleteUser(ctx context.Context, id string, force bool) error

	// Folders
	CreateFolder(ctx context.Context, req CreateFolderRequest) (Folder, error)
	DeleteFolder(ctx context.Context, id string, recursive bool) error

	// Files
	UploadFile(ctx context.Context, name, parentID string, content []byte) (File, error)
	DeleteFile(ctx context.Context, id string) error

	// Retention policies
	CreateRetentionPolicy(ctx context.Context, req CreateRetentionPolicyRequest) (RetentionPolicy, error)
	RetireRetentionPolicy(ctx context.Context, id string) (RetentionPolicy, error)

	// AsUser returns a client that issues requests on behalf of the
	// given managed user via the As-User header.
	AsUser(userID string) Client
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client.
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// UploadURL is the base URL of the upload host
	UploadURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// AccessToken authenticates every request
	AccessToken string
}

// DefaultOptions returns the default client options.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		UploadURL: DefaultUploadURL,
		Timeout:   DefaultTimeout,
	}
}

// APIClient implements the Client interface.
type APIClient struct {
	baseURL     string
	uploadURL   string
	timeout     time.Duration
	accessToken string
	asUser      string
}

// NewClient creates a new API client with the given options.
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UploadURL == "" {
		opts.UploadURL = DefaultUploadURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	// Validate the base URL
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL:     opts.BaseURL,
		uploadURL:   opts.UploadURL,
		timeout:     opts.Timeout,
		accessToken: opts.AccessToken,
	}, nil
}

// AsUser returns a copy of the client that sends the As-User header,
// scoping every request to the given managed user.
func (c *APIClient) AsUser(userID string) Client {
	clone := *c
	clone.asUser = userID
	return &clone
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, fullURL string, body interface{}) (*fiber.Agent, error) {
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Authorization", "Bearer "+c.accessToken)
	agent.Set("Accept", "application/json")
	if c.asUser != "" {
		agent.Set("As-User", c.asUser)
	}

	if body != nil {
		agent.Set("Content-Type", "application/json")
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		apiErr := &APIError{Status: statusCode, Message: string(body)}
		// Box error bodies carry a machine-readable code; keep the raw
		// body as the message when decoding fails.
		var decoded struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Code != "" {
			apiErr.Code = decoded.Code
			apiErr.Message = decoded.Message
		}
		return apiErr
	}

	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return err
	}
	return c.doRequest(agent, response)
}

// GetCurrentUser returns the user the access token authenticates as.
func (c *APIClient) GetCurrentUser(ctx context.Context) (User, error) {
	var user User
	err := c.executeRequest(ctx, http.MethodGet, "/users/me", nil, &user)
	return user, err
}

// CreateUser creates a managed (platform access only) app user.
func (c *APIClient) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	var user User
	err := c.executeRequest(ctx, http.MethodPost, "/users", req, &user)
	return user, err
}

// DeleteUser deletes a user. With force set, owned content is deleted too.
func (c *APIClient) DeleteUser(ctx context.Context, id string, force bool) error {
	endpoint := "/users/" + id
	if force {
		endpoint += "?force=true"
	}
	return c.executeRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CreateFolder creates a folder under the parent named in the request.
func (c *APIClient) CreateFolder(ctx context.Context, req CreateFolderRequest) (Folder, error) {
	var folder Folder
	err := c.executeRequest(ctx, http.MethodPost, "/folders", req, &folder)
	return folder, err
}

// DeleteFolder deletes a folder, optionally with its contents.
func (c *APIClient) DeleteFolder(ctx context.Context, id string, recursive bool) error {
	endpoint := "/folders/" + id
	if recursive {
		endpoint += "?recursive=true"
	}
	return c.executeRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// UploadFile uploads content as a new file under the given parent
// folder. Uploads go to the dedicated upload host as a multipart form.
func (c *APIClient) UploadFile(ctx context.Context, name, parentID string, content []byte) (File, error) {
	attrs, err := json.Marshal(uploadAttributes{
		Name:   name,
		Parent: ItemReference{ID: parentID},
	})
	if err != nil {
		return File{}, fmt.Errorf("error marshaling upload attributes: %w", err)
	}

	agent := fiber.Post(c.uploadURL + "/files/content")
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}
	agent.Set("Authorization", "Bearer "+c.accessToken)
	if c.asUser != "" {
		agent.Set("As-User", c.asUser)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("attributes", string(attrs))
	agent.FileData(&fiber.FormFile{
		Fieldname: "file",
		Name:      name,
		Content:   content,
	})
	agent.MultipartForm(args)

	var collection FileCollection
	if err := c.doRequest(agent, &collection); err != nil {
		return File{}, err
	}
	if len(collection.Entries) == 0 {
		return File{}, fmt.Errorf("upload response contained no entries")
	}
	return collection.Entries[0], nil
}

// DeleteFile deletes a file.
func (c *APIClient) DeleteFile(ctx context.Context, id string) error {
	return c.executeRequest(ctx, http.MethodDelete, "/files/"+id, nil, nil)
}

// CreateRetentionPolicy creates a retention policy.
func (c *APIClient) CreateRetentionPolicy(ctx context.Context, req CreateRetentionPolicyRequest) (RetentionPolicy, error) {
	var policy RetentionPolicy
	err := c.executeRequest(ctx, http.MethodPost, "/retention_policies", req, &policy)
	return policy, err
}

// RetireRetentionPolicy retires a retention policy. Policies cannot be
// deleted, so retiring is the closest reversal the API offers.
func (c *APIClient) RetireRetentionPolicy(ctx context.Context, id string) (RetentionPolicy, error) {
	var policy RetentionPolicy
	body := map[string]string{"status": "retired"}
	err := c.executeRequest(ctx, http.MethodPut, "/retention_policies/"+id, body, &policy)
	return policy, err
}
