// Package backendtest runs an in-process stand-in for the validation and
// generation services.
package backendtest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	ValidatePath = "/validate-api-key"
	GeneratePath = "/generate-readme"
)

// GenerateRequest is the body received on the generation endpoint
type GenerateRequest struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key"`
}

// Backend records the calls it receives and answers from its fields. Set the
// fields before issuing requests; they are read without locking.
type Backend struct {
	// ValidKey decides the validation answer for a ciphertext. The default
	// accepts anything shaped like an OpenSSL salted blob.
	ValidKey func(ciphertext string) bool
	// ValidateStatus overrides the validation response status when non-zero
	ValidateStatus int
	// ValidateBody overrides the validation response body when non-empty
	ValidateBody string

	// Readme is returned by the generation endpoint
	Readme string
	// GenerateStatus overrides the generation response status when non-zero
	GenerateStatus int
	// GenerateBody overrides the generation response body when non-empty
	GenerateBody string

	// Block, when set, holds requests until it is closed
	Block chan struct{}

	server *httptest.Server

	mu             sync.Mutex
	validateCalls  []string
	generateCalls  []GenerateRequest
	requestIDsSeen []string
}

// New starts a backend; it is closed when the test ends.
func New(t interface{ Cleanup(func()) }) *Backend {
	b := &Backend{
		ValidKey: LooksEncrypted,
		Readme:   "# Example\n\nGenerated README.\n",
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Post(ValidatePath, b.handleValidate)
	r.Post(GeneratePath, b.handleGenerate)
	return r
}

// ValidateURL is the full URL of the validation endpoint
func (b *Backend) ValidateURL() string { return b.server.URL + ValidatePath }

// GenerateURL is the full URL of the generation endpoint
func (b *Backend) GenerateURL() string { return b.server.URL + GeneratePath }

// ValidateCalls returns the ciphertexts received so far
func (b *Backend) ValidateCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.validateCalls...)
}

// GenerateCalls returns the generation bodies received so far
func (b *Backend) GenerateCalls() []GenerateRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]GenerateRequest(nil), b.generateCalls...)
}

// RequestIDs returns the X-Request-ID headers received so far
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDsSeen...)
}

func (b *Backend) handleValidate(w http.ResponseWriter, r *http.Request) {
	ciphertext := r.URL.Query().Get("api_key")

	b.mu.Lock()
	b.validateCalls = append(b.validateCalls, ciphertext)
	b.requestIDsSeen = append(b.requestIDsSeen, r.Header.Get("X-Request-ID"))
	b.mu.Unlock()

	b.wait()

	if b.ValidateBody != "" {
		writeRaw(w, b.status(b.ValidateStatus), b.ValidateBody)
		return
	}

	if b.ValidKey != nil && b.ValidKey(ciphertext) {
		writeJSON(w, b.status(b.ValidateStatus), map[string]any{"valid": true, "message": "API key is valid"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid API key"})
}

func (b *Backend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	b.generateCalls = append(b.generateCalls, req)
	b.requestIDsSeen = append(b.requestIDsSeen, r.Header.Get("X-Request-ID"))
	b.mu.Unlock()

	b.wait()

	if b.GenerateBody != "" {
		writeRaw(w, b.status(b.GenerateStatus), b.GenerateBody)
		return
	}
	if b.GenerateStatus != 0 && b.GenerateStatus != http.StatusOK {
		writeJSON(w, b.GenerateStatus, map[string]any{"detail": "Error: failed to clone repository"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"readme": b.Readme})
}

func (b *Backend) wait() {
	if b.Block != nil {
		<-b.Block
	}
}

func (b *Backend) status(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

// LooksEncrypted accepts base64 text carrying the OpenSSL "Salted__" header
func LooksEncrypted(ciphertext string) bool {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(raw), "Salted__") && len(raw) > 16
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
