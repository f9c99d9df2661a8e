package command

import (
	"net/http"
	"strings"
	"testing"
)

func TestClaimsList(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /admin/v1/claims", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"set": "claimed", "count": 1, "tokens": []string{"c@example.com"},
		})
	})

	out, _, err := runApp(t, server, "", "-o", "yaml", "claims", "list")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"set: claimed", "count: 1", "- c@example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenInspect(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /admin/v1/tokens/{token}", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"token":   r.PathValue("token"),
			"allowed": false,
			"claimed": true,
		})
	})

	out, _, err := runApp(t, server, "", "token", "inspect", "a/b@example.com")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "TOKEN            ALLOWED  CLAIMED\na/b@example.com  false    true\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, _, err := runApp(t, server, "", "token", "inspect"); err == nil {
		t.Error("inspect without a token should fail")
	}
}
