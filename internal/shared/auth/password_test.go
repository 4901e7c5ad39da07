package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Error("HashPassword() returned the plain text password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q does not look like bcrypt output", hash)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if err := VerifyPassword(hash, "s3cret!"); err != nil {
		t.Errorf("VerifyPassword() rejected the correct password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP() failed: %v", err)
		}
		if len(otp) != 6 {
			t.Errorf("GenerateOTP() = %q, want 6 digits", otp)
		}
		if otp[0] == '0' {
			t.Errorf("GenerateOTP() = %q, has a leading zero", otp)
		}
		seen[otp] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateOTP() produced the same code 20 times in a row")
	}
}

func TestVerifyOTP(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("GenerateOTP() failed: %v", err)
	}

	hash, err := HashOTP(otp)
	if err != nil {
		t.Fatalf("HashOTP() failed: %v", err)
	}

	if err := VerifyOTP(hash, otp); err != nil {
		t.Errorf("VerifyOTP() rejected the correct code: %v", err)
	}
	if err := VerifyOTP(hash, "000000"); err == nil {
		t.Error("VerifyOTP() accepted a wrong code")
	}
}
