package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockServer is a tokclaim API stand-in that answers with response envelopes.
type mockServer struct {
	*httptest.Server
	mux *http.ServeMux
}

// newMockServer creates a new mock server closed at test cleanup.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{mux: http.NewServeMux()}
	m.Server = httptest.NewServer(m.mux)
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for a method-and-path pattern.
func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes data inside a success envelope.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       "OK",
		"message":    "Success",
		"request_id": "req-test",
		"data":       data,
	})
}

// errorResponse writes an error envelope.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":       code,
		"message":    message,
		"request_id": "req-test",
	})
}

// decodeBody decodes a JSON request body into a string map.
func decodeBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

// runApp runs the CLI against server with stdin as input and returns
// what it wrote to stdout and stderr. HOME points at an empty directory
// so no real CLI profile is picked up; a nil server leaves --server unset.
func runApp(t *testing.T, server *mockServer, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut

	argv := []string{"tokclaim-cli"}
	if server != nil {
		argv = append(argv, "--server", server.URL)
	}
	err = app.Run(append(argv, args...))
	return out.String(), errOut.String(), err
}
