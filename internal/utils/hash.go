package utils

import "golang.org/x/crypto/bcrypt"

// HashOTPCode returns a bcrypt hash of a verification code so codes are
// never stored in plaintext.
func HashOTPCode(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckOTPCode compares a bcrypt-hashed code with a submitted plaintext code.
func CheckOTPCode(hashedCode, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code)) == nil
}
