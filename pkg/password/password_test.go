package password_test

import (
	"strings"
	"testing"

	"wrfcloud/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("a-test-password")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("expected bcrypt cost 12 hash, got %q", hash[:8])
	}
	if !password.Verify("a-test-password", hash) {
		t.Error("correct password failed verification")
	}
	if password.Verify("wrong-password", hash) {
		t.Error("wrong password passed verification")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := password.Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := password.Hash("a-test-password")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	second, err := password.Hash("a-test-password")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestDummyHashNeverVerifies(t *testing.T) {
	for _, guess := range []string{"", "password", "dummy", password.DummyHash} {
		if password.Verify(guess, password.DummyHash) {
			t.Errorf("dummy hash verified against %q", guess)
		}
	}
}
