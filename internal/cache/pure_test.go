package cache

import (
	"context"
	"strings"
	"testing"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	hash1 := hashIP(ip)
	hash2 := hashIP(ip)

	if hash1 != hash2 {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"different last octet", "10.0.0.1", "10.0.0.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
		{"public vs private", "8.8.8.8", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashIP(tt.ip1)
			hash2 := hashIP(tt.ip2)

			if hash1 == hash2 {
				t.Errorf("Different IPs should produce different hashes: %q and %q both produced %s", tt.ip1, tt.ip2, hash1)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	digest := strings.Repeat("ab", 32)
	if got := sessionKey(digest); got != "session:"+digest {
		t.Errorf("sessionKey() = %q", got)
	}
}

func TestAllowAll(t *testing.T) {
	t.Parallel()

	result := allowAll(5)
	if !result.Allowed {
		t.Error("expected request to be allowed")
	}
	if result.Remaining != 5 {
		t.Errorf("Remaining = %d, want 5", result.Remaining)
	}
	if result.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v, want 0", result.RetryAfter)
	}
}

func TestCheckAuthRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	// A zero rate never touches Redis, so a nil client is safe here.
	c := &Cache{}
	result, err := c.CheckAuthRateLimit(context.Background(), "10.0.0.1", 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("expected request to be allowed when limiting is off")
	}
}

func TestClientOptions(t *testing.T) {
	t.Parallel()

	opt, err := clientOptions("redis://:secret@localhost:6380/3")
	if err != nil {
		t.Fatalf("clientOptions: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.DB != 3 || opt.Password != "secret" {
		t.Errorf("url fields not kept: addr=%s db=%d", opt.Addr, opt.DB)
	}
	if opt.PoolSize != poolSize || opt.MinIdleConns != minIdleConns {
		t.Errorf("pool = %d/%d, want %d/%d", opt.PoolSize, opt.MinIdleConns, poolSize, minIdleConns)
	}
}

func TestClientOptions_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := clientOptions("http://localhost:6379"); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}
