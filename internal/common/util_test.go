package common

import (
	"encoding/base64"
	"strings"
	"testing"
)

// ---------- MakeRandURLToken ----------

func TestMakeRandURLToken_URLSafeAndDecodable(t *testing.T) {
	const n = 24
	s, err := MakeRandURLToken(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(s, "+/=") {
		t.Fatalf("token is not url-safe: %q", s)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("token is not raw base64url: %v", err)
	}
	if len(b) != n {
		t.Fatalf("expected %d decoded bytes, got %d", n, len(b))
	}
}

func TestMakeRandURLToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		s, err := MakeRandURLToken(24)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate token generated: %s", s)
		}
		seen[s] = struct{}{}
	}
}

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
