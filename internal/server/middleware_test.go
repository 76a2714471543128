package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

// TestAPIKeyAuth verifies missing keys get 401 and wrong keys 403.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusForbidden},
		{"valid", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestMeLocal verifies that without Tailscale every caller is the local coach.
func TestMeLocal(t *testing.T) {
	rec := do(t, newTestServer(newFake()), http.MethodGet, "/api/v1/me", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[UserInfo](t, rec); got != localUser {
		t.Errorf("me = %+v, want %+v", got, localUser)
	}
}

type fakeWhoIs struct {
	resp *apitype.WhoIsResponse
	err  error
}

func (f fakeWhoIs) WhoIs(context.Context, string) (*apitype.WhoIsResponse, error) {
	return f.resp, f.err
}

// TestMeTailnet verifies the tailnet login becomes the request identity.
func TestMeTailnet(t *testing.T) {
	s := newTestServer(newFake())
	s.SetTailscale(fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "pat@example.com", DisplayName: "Pat"},
	}})

	rec := do(t, s, http.MethodGet, "/api/v1/me", "", false)
	got := decode[UserInfo](t, rec)
	if got.Login != "pat@example.com" || got.DisplayName != "Pat" {
		t.Errorf("me = %+v", got)
	}
}

func TestUnknownPeerRejected(t *testing.T) {
	s := newTestServer(newFake())
	s.SetTailscale(fakeWhoIs{err: errors.New("no such peer")})

	if rec := do(t, s, http.MethodGet, "/api/v1/players", "", false); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestUserInfoFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := userInfoFromContext(req); got != localUser {
		t.Errorf("userInfoFromContext = %+v, want local user", got)
	}
}

// TestCORSPreflight verifies OPTIONS is answered before auth runs.
func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(newFake()), http.MethodOptions, "/api/v1/sessions", "", false)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-API-Key" {
		t.Errorf("allow headers = %q", got)
	}
}
