package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPValidity is how long a generated one-time password stays usable.
const OTPValidity = 10 * time.Minute

// GenerateOTP returns a random 6-digit one-time password.
func GenerateOTP() (string, error) {
	// 100000..999999 so the code never has a leading zero to trip up
	// clients that treat it as a number.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// HashOTP hashes a one-time password for storage. OTP codes are short-lived
// credentials and get the same bcrypt treatment as passwords.
func HashOTP(otp string) (string, error) {
	return HashPassword(otp)
}

// VerifyOTP checks a submitted code against the stored hash.
func VerifyOTP(hashedOTP, otp string) error {
	return VerifyPassword(hashedOTP, otp)
}
