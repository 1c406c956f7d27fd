package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password must not verify")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: "u1", Role: RoleBursar}, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RoleBursar {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("token must not parse under a different secret")
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: "u1", Role: RoleAdmin}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expired token must not parse")
	}
}

func TestCanRunPayroll(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleBursar, true},
		{RoleStaff, false},
		{"", false},
	}
	for _, tc := range cases {
		user := UserContext{Role: tc.role}
		if got := user.CanRunPayroll(); got != tc.want {
			t.Fatalf("role %q: expected %v, got %v", tc.role, tc.want, got)
		}
	}
}
