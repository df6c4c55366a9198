package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Static accepts exactly one pair of credentials. Comparison is constant-time.
func Static(username, password string) Validator {
	wantUser, wantPass := []byte(username), []byte(password)

	return func(username, password string) bool {
		userOK := subtle.ConstantTimeCompare(wantUser, []byte(username))
		passOK := subtle.ConstantTimeCompare(wantPass, []byte(password))
		return userOK&passOK == 1
	}
}

// Bcrypt accepts users whose password matches the bcrypt hash stored for them. The map
// is copied, so later modifications don't affect the validator.
func Bcrypt(hashes map[string][]byte) Validator {
	users := make(map[string][]byte, len(hashes))
	for user, hash := range hashes {
		users[user] = hash
	}

	return func(username, password string) bool {
		hash, found := users[username]
		if !found {
			return false
		}

		return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	}
}

// Any accepts credentials if at least one of the validators does.
func Any(validators ...Validator) Validator {
	return func(username, password string) bool {
		for _, validator := range validators {
			if validator(username, password) {
				return true
			}
		}

		return false
	}
}
