// Package auth implements the shared access gate and session tokens.
// The editor is protected by a single access code shared by the desk;
// a correct code yields a short-lived session token.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrAccessDenied is returned when the presented access code does not
// match.
var ErrAccessDenied = errors.New("access denied")

// Gate verifies the shared access code against its bcrypt hash.
type Gate struct {
	hash []byte
}

// NewGate creates a gate from a bcrypt hash of the access code.
func NewGate(hash string) (*Gate, error) {
	if hash == "" {
		return nil, errors.New("access code hash is required")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, errors.New("access code hash is not a valid bcrypt hash")
	}
	return &Gate{hash: []byte(hash)}, nil
}

// NewGateFromPlaintext hashes the given code at startup and gates on
// the result. Development convenience; production configures the hash.
func NewGateFromPlaintext(code string) (*Gate, error) {
	if code == "" {
		return nil, errors.New("access code is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: hash}, nil
}

// Verify checks the presented code. The only failure callers can
// distinguish is ErrAccessDenied; wrong code and malformed input look
// identical.
func (g *Gate) Verify(code string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(code)); err != nil {
		return ErrAccessDenied
	}
	return nil
}
