package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/tallyhub/tallyhub/internal/app/system/authn"
)

// TestIdentity returns an authenticated identity for uid with predictable
// profile fields.
func TestIdentity(uid string) authn.Identity {
	return authn.Identity{
		UID:   uid,
		Name:  "Test " + uid,
		Email: uid + "@test.com",
	}
}

// WithIdentity adds an identity to the request context, bypassing the
// bearer-token middleware.
func WithIdentity(r *http.Request, id authn.Identity) *http.Request {
	return r.WithContext(authn.ContextWithIdentity(r.Context(), id))
}

// NewAuthedRequest creates an HTTP request authenticated as uid.
func NewAuthedRequest(method, target string, body io.Reader, uid string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return WithIdentity(req, TestIdentity(uid))
}

// NewJSONRequest creates an authenticated request carrying a JSON body.
func NewJSONRequest(method, target, body, uid string) *http.Request {
	return NewAuthedRequest(method, target, strings.NewReader(body), uid)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q (body: %s)", expected, r.Body.String())
	}
}
