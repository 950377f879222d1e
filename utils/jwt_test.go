package utils

import (
	"strings"
	"testing"
	"time"
)

var testKey = []byte("test-secret")

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testKey, "agent-7", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(testKey, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "agent-7" || claims.Issuer != tokenIssuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateJWTFailures(t *testing.T) {
	expired, _ := GenerateJWT(testKey, "agent-7", -time.Minute)
	otherKey, _ := GenerateJWT([]byte("other"), "agent-7", time.Minute)

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"expired", expired, "expired"},
		{"wrong key", otherKey, "signature"},
		{"garbage", "not.a.token", ""},
	}

	for _, tt := range tests {
		_, err := ValidateJWT(testKey, tt.token)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.wantMsg)
		}
	}
}
