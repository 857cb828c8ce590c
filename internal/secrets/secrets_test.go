package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HIREMATCH_TEST_TOKEN", "from-env")

	got, err := Load(Source{Name: "api token", File: path, Env: "HIREMATCH_TEST_TOKEN", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
}

func TestLoadFallsBackToEnvThenValue(t *testing.T) {
	t.Setenv("HIREMATCH_TEST_TOKEN", " from-env ")

	got, err := Load(Source{Env: "HIREMATCH_TEST_TOKEN", Value: "inline"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected from-env, got %q (%v)", got, err)
	}

	t.Setenv("HIREMATCH_TEST_TOKEN", "")
	got, err = Load(Source{Env: "HIREMATCH_TEST_TOKEN", Value: "inline"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		src  Source
		want string
	}{
		{name: "nothing configured", src: Source{Name: "api token"}, want: "api token is not configured"},
		{name: "default name", src: Source{}, want: "secret is not configured"},
		{name: "empty file", src: Source{Name: "api token", File: empty}, want: "is empty"},
		{name: "missing file", src: Source{File: filepath.Join(t.TempDir(), "missing")}, want: "reading secret from file"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.src)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	token := signedToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "17", ExpiresAt: jwt.NewNumericDate(exp)},
		Email:            "hr@acme.test",
		UserType:         "Employer",
	})

	claims, err := ParseClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.AccountRole() != "employer" {
		t.Fatalf("expected employer role, got %q", claims.AccountRole())
	}
	if claims.Identity() != "hr@acme.test" {
		t.Fatalf("unexpected identity %q", claims.Identity())
	}
	if claims.ExpiredAt(exp.Add(-time.Minute)) {
		t.Fatalf("token should not be expired before exp")
	}
	if !claims.ExpiredAt(exp) {
		t.Fatalf("token should be expired at exp")
	}
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
	if _, err := ParseClaims("  "); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestClaimsWithoutExpiry(t *testing.T) {
	claims := &Claims{UserID: 5}
	if claims.ExpiredAt(time.Now()) {
		t.Fatalf("claims without exp must not expire")
	}
	if claims.Identity() != "5" {
		t.Fatalf("expected user id identity, got %q", claims.Identity())
	}
}
