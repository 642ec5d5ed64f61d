package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://deeds.local/api/deeds", nil)
	req.RemoteAddr = "198.18.0.42:51820"
	ip := clientIPGeneric(req, nil)
	if ip != "198.18.0.42" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://deeds.local/api/deeds", nil)
	req.RemoteAddr = "10.0.0.2:443"
	req.Header.Set("X-Forwarded-For", "198.18.0.42, 10.0.0.2")
	// proxy named directly in the trusted list
	ip := clientIPGeneric(req, []string{"10.0.0.2"})
	if ip != "198.18.0.42" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyCIDR(t *testing.T) {
	req := httptest.NewRequest("GET", "http://deeds.local/api/deeds", nil)
	req.RemoteAddr = "10.0.0.7:443"
	req.Header.Set("X-Real-IP", "198.18.0.42")
	ip := clientIPGeneric(req, []string{"10.0.0.0/8"})
	if ip != "198.18.0.42" {
		t.Fatalf("expected X-Real-IP behind trusted CIDR, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://deeds.local/api/deeds", nil)
	req.RemoteAddr = "172.16.0.9:443"
	req.Header.Set("X-Forwarded-For", "198.18.0.42, 172.16.0.9")
	ip := clientIPGeneric(req, []string{"10.0.0.0/8"})
	if ip != "172.16.0.9" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func TestAccountLockout(t *testing.T) {
	const uid = uint(9001)
	ResetFailedLogin(uid)

	if locked, _ := IsAccountLocked(uid); locked {
		t.Fatal("fresh account should not be locked")
	}

	RecordFailedLogin(uid)
	locked, ttl := IsAccountLocked(uid)
	if !locked {
		t.Fatal("one failure should trip the first lockout window")
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("first lockout should be up to a minute, got %s", ttl)
	}

	ResetFailedLogin(uid)
	if locked, _ := IsAccountLocked(uid); locked {
		t.Fatal("reset should clear the lockout")
	}
}

func TestAccountLockout_Escalates(t *testing.T) {
	const uid = uint(9002)
	ResetFailedLogin(uid)

	RecordFailedLogin(uid)
	RecordFailedLogin(uid)
	locked, ttl := IsAccountLocked(uid)
	if !locked {
		t.Fatal("second failure should keep the account locked")
	}
	if ttl <= time.Minute {
		t.Fatalf("second lockout should exceed the first window, got %s", ttl)
	}

	ResetFailedLogin(uid)
}
