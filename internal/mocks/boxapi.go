// Package mocks provides mock implementations of the Box API used in testing.
//
// Two layers are offered:
//  1. BoxAPI: a stateful in-memory Box API served over httptest, for
//     exercising the real client end to end
//  2. MockBoxClient: a function-field fake of box.Client, for tests
//     that only care about which handle a command observed
package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/watfordsuzy/boxkit/pkg/box"
	"github.com/watfordsuzy/boxkit/pkg/config"
)

// MockAccessToken is the bearer token the fake token endpoint issues.
const MockAccessToken = "mock-access-token"

// ServiceAccountID is the id of the fake enterprise service account.
const ServiceAccountID = "11111"

// BoxAPI is a stateful in-memory Box API. All mutating endpoints record
// state under a single lock; deletion order is recorded so tests can
// assert reverse-order teardown.
type BoxAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]box.User
	folders  map[string]box.Folder
	files    map[string]box.File
	policies map[string]box.RetentionPolicy
	nextID   int
	failures map[string]int

	// Deletions records every successful delete/retire as "kind:id",
	// in order.
	Deletions []string

	key *rsa.PrivateKey
}

// NewBoxAPI starts a fake Box API server. Close must be called when done.
func NewBoxAPI() *BoxAPI {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(fmt.Sprintf("mocks: generating RSA key: %v", err))
	}

	api := &BoxAPI{
		users:    make(map[string]box.User),
		folders:  make(map[string]box.Folder),
		files:    make(map[string]box.File),
		policies: make(map[string]box.RetentionPolicy),
		nextID:   1000,
		failures: make(map[string]int),
		key:      key,
	}
	api.users[ServiceAccountID] = box.User{
		ID:    ServiceAccountID,
		Type:  "user",
		Name:  "Mock Service Account",
		Login: "AutomationUser@boxdevedition.com",
	}
	api.folders["0"] = box.Folder{ID: "0", Type: "folder", Name: "All Files"}

	api.Server = httptest.NewServer(http.HandlerFunc(api.handle))
	return api
}

// Close shuts the server down.
func (a *BoxAPI) Close() {
	a.Server.Close()
}

// ClientOptions returns client options targeting the fake server.
func (a *BoxAPI) ClientOptions() *box.Options {
	return &box.Options{
		BaseURL:     a.Server.URL + "/2.0",
		UploadURL:   a.Server.URL + "/2.0",
		AccessToken: MockAccessToken,
	}
}

// Config returns a complete configuration targeting the fake server,
// including a private key the fake token endpoint accepts.
func (a *BoxAPI) Config() *config.Config {
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(a.key),
	})
	return &config.Config{
		BoxAppSettings: config.AppSettings{
			ClientID:     "mock-client-id",
			ClientSecret: "mock-client-secret",
			AppAuth: config.AppAuth{
				PublicKeyID: "mockkid",
				PrivateKey:  string(keyPEM),
			},
		},
		EnterpriseID: "999999",
		BaseURL:      a.Server.URL + "/2.0",
		UploadURL:    a.Server.URL + "/2.0",
		TokenURL:     a.Server.URL + "/oauth2/token",
	}
}

// FailWith forces the next requests matching "METHOD /path" (prefix
// match on the path) to fail with the given status.
func (a *BoxAPI) FailWith(status int, method, pathPrefix string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+pathPrefix] = status
}

// UserCount returns the number of users currently stored, excluding the
// service account.
func (a *BoxAPI) UserCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.users) - 1
}

// FolderCount returns the number of folders currently stored, excluding
// the root folder.
func (a *BoxAPI) FolderCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.folders) - 1
}

// FileCount returns the number of files currently stored.
func (a *BoxAPI) FileCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.files)
}

func (a *BoxAPI) newID() string {
	a.nextID++
	return strconv.Itoa(a.nextID)
}

func (a *BoxAPI) forcedFailure(r *http.Request) (int, bool) {
	for key, status := range a.failures {
		method, prefix, ok := strings.Cut(key, " ")
		if !ok {
			continue
		}
		if r.Method == method && strings.HasPrefix(r.URL.Path, prefix) {
			return status, true
		}
	}
	return 0, false
}

func (a *BoxAPI) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if status, ok := a.forcedFailure(r); ok {
		writeError(w, status, "forced_failure")
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/oauth2/token":
		a.handleToken(w, r)
	case r.Method == http.MethodGet && path == "/2.0/users/me":
		a.handleCurrentUser(w, r)
	case r.Method == http.MethodPost && path == "/2.0/users":
		a.handleCreateUser(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/2.0/users/"):
		a.handleDelete(w, "user", a.userIDs(), strings.TrimPrefix(path, "/2.0/users/"))
	case r.Method == http.MethodPost && path == "/2.0/folders":
		a.handleCreateFolder(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/2.0/folders/"):
		a.handleDelete(w, "folder", a.folderIDs(), strings.TrimPrefix(path, "/2.0/folders/"))
	case r.Method == http.MethodPost && path == "/2.0/files/content":
		a.handleUpload(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/2.0/files/"):
		a.handleDelete(w, "file", a.fileIDs(), strings.TrimPrefix(path, "/2.0/files/"))
	case r.Method == http.MethodPost && path == "/2.0/retention_policies":
		a.handleCreatePolicy(w, r)
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/2.0/retention_policies/"):
		a.handleRetirePolicy(w, strings.TrimPrefix(path, "/2.0/retention_policies/"))
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

func (a *BoxAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if r.PostFormValue("assertion") == "" || r.PostFormValue("client_id") == "" {
		writeError(w, http.StatusBadRequest, "invalid_grant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": MockAccessToken,
		"expires_in":   3600,
		"token_type":   "bearer",
	})
}

func (a *BoxAPI) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if asUser := r.Header.Get("As-User"); asUser != "" {
		user, ok := a.users[asUser]
		if !ok {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}
	writeJSON(w, http.StatusOK, a.users[ServiceAccountID])
}

func (a *BoxAPI) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req box.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	user := box.User{
		ID:    a.newID(),
		Type:  "user",
		Name:  req.Name,
		Login: "AppUser_" + a.newID() + "@boxdevedition.com",
	}
	a.users[user.ID] = user
	writeJSON(w, http.StatusCreated, user)
}

func (a *BoxAPI) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req box.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if _, ok := a.folders[req.Parent.ID]; !ok {
		writeError(w, http.StatusNotFound, "parent_not_found")
		return
	}
	folder := box.Folder{
		ID:     a.newID(),
		Type:   "folder",
		Name:   req.Name,
		Parent: &box.ItemReference{ID: req.Parent.ID},
	}
	a.folders[folder.ID] = folder
	writeJSON(w, http.StatusCreated, folder)
}

func (a *BoxAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	var attrs struct {
		Name   string `json:"name"`
		Parent struct {
			ID string `json:"id"`
		} `json:"parent"`
	}
	if err := json.Unmarshal([]byte(r.PostFormValue("attributes")), &attrs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_attributes")
		return
	}
	if _, ok := a.folders[attrs.Parent.ID]; !ok {
		writeError(w, http.StatusNotFound, "parent_not_found")
		return
	}
	part, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file")
		return
	}
	content, err := io.ReadAll(part)
	_ = part.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_file")
		return
	}

	file := box.File{
		ID:     a.newID(),
		Type:   "file",
		Name:   attrs.Name,
		Size:   int64(len(content)),
		Parent: &box.ItemReference{ID: attrs.Parent.ID},
	}
	a.files[file.ID] = file
	writeJSON(w, http.StatusCreated, box.FileCollection{
		TotalCount: 1,
		Entries:    []box.File{file},
	})
}

func (a *BoxAPI) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req box.CreateRetentionPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	policy := box.RetentionPolicy{
		ID:                a.newID(),
		Type:              "retention_policy",
		PolicyName:        req.PolicyName,
		PolicyType:        req.PolicyType,
		RetentionLength:   req.RetentionLength,
		DispositionAction: req.DispositionAction,
		Status:            "active",
	}
	a.policies[policy.ID] = policy
	writeJSON(w, http.StatusCreated, policy)
}

func (a *BoxAPI) handleRetirePolicy(w http.ResponseWriter, id string) {
	policy, ok := a.policies[id]
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	policy.Status = "retired"
	a.policies[id] = policy
	a.Deletions = append(a.Deletions, "retention_policy:"+id)
	writeJSON(w, http.StatusOK, policy)
}

// handleDelete removes id from the store for the given kind and records
// the deletion.
func (a *BoxAPI) handleDelete(w http.ResponseWriter, kind string, store map[string]struct{}, rawID string) {
	id := rawID
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	if _, ok := store[id]; !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	switch kind {
	case "user":
		delete(a.users, id)
	case "folder":
		delete(a.folders, id)
	case "file":
		delete(a.files, id)
	}
	a.Deletions = append(a.Deletions, kind+":"+id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *BoxAPI) userIDs() map[string]struct{}   { return keys(a.users) }
func (a *BoxAPI) folderIDs() map[string]struct{} { return keys(a.folders) }
func (a *BoxAPI) fileIDs() map[string]struct{}   { return keys(a.files) }

func keys[V any](m map[string]V) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]interface{}{
		"type":    "error",
		"status":  status,
		"code":    code,
		"message": code,
	})
}
