package connection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name   string
		server string
		want   string
	}{
		{"with http prefix", "http://localhost:5080", "http://localhost:5080"},
		{"with https prefix", "https://localhost:5080", "https://localhost:5080"},
		{"without prefix", "localhost:5080", "http://localhost:5080"},
		{"trailing slash", "http://localhost:5080/", "http://localhost:5080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewHTTPClient(tt.server, "", "").BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/admin/v1/allowlist" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key-ID") != "admin" || r.Header.Get("X-API-Key") != "s3cret" {
			t.Error("credentials not sent")
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "tokclaim-cli/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		io.WriteString(w, `{"code":"OK","message":"Success","request_id":"req-1","data":{"count":2}}`)
	}))
	defer server.Close()

	var out struct {
		Count int `json:"count"`
	}
	client := NewHTTPClient(server.URL, "admin", "s3cret")
	if err := client.GetJSON(context.Background(), "/admin/v1/allowlist", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
}

func TestHTTPClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["token"] != "a@b.com" {
			t.Errorf("body = %v, %v", body, err)
		}
		io.WriteString(w, `{"code":"OK","data":{"result":"added"}}`)
	}))
	defer server.Close()

	var out struct {
		Result string `json:"result"`
	}
	client := NewHTTPClient(server.URL, "", "")
	if err := client.PostJSON(context.Background(), "/admin/v1/allowlist", map[string]string{"token": "a@b.com"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.Result != "added" {
		t.Errorf("result = %q", out.Result)
	}
}

func TestParseResponse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantText string
	}{
		{"envelope", http.StatusBadRequest,
			`{"code":"TC-TOKN-4000","message":"invalid token","details":"token is empty","request_id":"req-9"}`,
			"TC-TOKN-4000", "[TC-TOKN-4000] invalid token: token is empty (request req-9)"},
		{"plain text", http.StatusBadGateway, "bad gateway", "HTTP-502", "[HTTP-502] Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			err := ParseResponse(resp, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Code != tt.wantCode || apiErr.Status != tt.status {
				t.Errorf("APIError = %+v", apiErr)
			}
			if err.Error() != tt.wantText {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestParseResponse_InvalidJSON(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("not json")),
	}
	if err := ParseResponse(resp, nil); err == nil {
		t.Error("ParseResponse() should fail on invalid JSON")
	}
}

func TestPathEscape(t *testing.T) {
	if got := PathEscape("a/b@c.com"); got != "a%2Fb@c.com" {
		t.Errorf("PathEscape() = %q", got)
	}
}

func TestHTTPClient_WithTLSConfig(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"OK","data":{"status":"healthy"}}`)
	}))
	defer server.Close()

	var out struct {
		Status string `json:"status"`
	}
	plain := NewHTTPClient(server.URL, "", "")
	if err := plain.GetJSON(context.Background(), "/health", &out); err == nil {
		t.Fatal("request to an untrusted certificate should fail")
	}

	trusted := server.Client().Transport.(*http.Transport).TLSClientConfig
	client := NewHTTPClient(server.URL, "", "", WithTLSConfig(trusted))
	if err := client.GetJSON(context.Background(), "/health", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.Status != "healthy" {
		t.Errorf("status = %q, want healthy", out.Status)
	}
}
