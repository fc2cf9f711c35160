package password

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinLength = 8

var common = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"iloveyou":  {},
	"letmein1":  {},
	"admin123":  {},
	"welcome1":  {},
	"11111111":  {},
}

func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func Check(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Problems lists every rule the password breaks. An empty slice means it is acceptable.
func Problems(plain string) []string {
	var out []string
	if len(plain) < MinLength {
		out = append(out, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := common[strings.ToLower(plain)]; ok {
		out = append(out, "This password is too common.")
	}
	if plain != "" && strings.IndexFunc(plain, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		out = append(out, "This password is entirely numeric.")
	}
	return out
}
