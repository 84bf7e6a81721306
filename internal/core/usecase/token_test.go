package usecase

import (
	"strings"
	"testing"
)

func TestNewAPIKeyTokenFormat(t *testing.T) {
	token := NewAPIKeyToken()
	if !strings.HasPrefix(token, "wa_api_") {
		t.Fatalf("token %q missing wa_api_ prefix", token)
	}
	if len(token) != len("wa_api_")+32 {
		t.Fatalf("token %q has wrong length %d", token, len(token))
	}
	if token == NewAPIKeyToken() {
		t.Fatal("two generated tokens must differ")
	}
}

func TestNewSessionIDFormat(t *testing.T) {
	id := NewSessionID()
	if !strings.HasPrefix(id, "wa_") {
		t.Fatalf("session id %q missing wa_ prefix", id)
	}
	if len(id) != len("wa_")+12 {
		t.Fatalf("session id %q has wrong length %d", id, len(id))
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("wa_api_abc")
	b := HashToken("wa_api_abc")
	if a != b {
		t.Fatal("same token must hash identically")
	}
	if a == HashToken("wa_api_abd") {
		t.Fatal("different tokens must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex, got length %d", len(a))
	}
}

func TestMaskToken(t *testing.T) {
	masked := MaskToken("wa_api_0123456789abcdef0123456789abcdef")
	if masked != "wa_api_...cdef" {
		t.Fatalf("unexpected mask %q", masked)
	}
}
