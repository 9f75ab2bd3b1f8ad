package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestEstablishThenCurrent_Roundtrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	if err := m.Establish(rec, 42, "alice"); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatal("expected session cookie to be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	identity, ok := m.Current(req)
	if !ok {
		t.Fatal("expected valid session")
	}
	if identity.UserID != 42 || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestCurrent_NoCookieIsAnonymous(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := m.Current(req); ok {
		t.Fatal("expected anonymous request")
	}
}

func TestCurrent_TamperedTokenRejected(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	if err := m.Establish(rec, 42, "alice"); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	cookie := sessionCookie(t, rec)

	// Подмена последнего символа подписи
	tampered := cookie.Value[:len(cookie.Value)-1]
	if cookie.Value[len(cookie.Value)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tampered})

	if _, ok := m.Current(req); ok {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestCurrent_ForeignSecretRejected(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	rec := httptest.NewRecorder()
	if err := issuer.Establish(rec, 42, "alice"); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))

	if _, ok := verifier.Current(req); ok {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestCurrent_ExpiredTokenRejected(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	rec := httptest.NewRecorder()
	if err := m.Establish(rec, 42, "alice"); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))

	if _, ok := m.Current(req); ok {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestClear_ExpiresCookie(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookie := sessionCookie(t, rec)
	if cookie.MaxAge >= 0 {
		t.Fatalf("expected negative MaxAge, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Fatalf("expected empty cookie value, got %q", cookie.Value)
	}
}
