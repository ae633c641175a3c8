package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("attempt %d blocked below limit", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("attempt over limit allowed")
	}
	if !l.Allow("other") {
		t.Error("unrelated key blocked")
	}

	l.Reset("key")
	if !l.Allow("key") {
		t.Error("blocked after Reset")
	}
}

func TestLoginLimiterPerEmail(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)

	for i := 0; i < 5; i++ {
		ok, _ := ll.Check(r, "Target@Example.com")
		if !ok {
			t.Fatalf("attempt %d blocked below limit", i+1)
		}
	}
	ok, reason := ll.Check(r, "target@example.com")
	if ok {
		t.Fatal("sixth attempt for same account allowed")
	}
	if reason == "" {
		t.Error("blocked attempt has no reason")
	}

	ll.ResetEmail("target@example.com")
	if ok, _ := ll.Check(r, "target@example.com"); !ok {
		t.Error("blocked after ResetEmail")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:4312"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}
