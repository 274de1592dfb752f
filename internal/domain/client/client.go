package client

import (
	"regexp"
	"strings"

	"github.com/lalajet/backend/internal/domain/shared"
)

// KeyPrefix is the prefix for generated client keys.
const KeyPrefix = "cl-"

// Client represents a brokerage client. It is the aggregate root of the
// clients collection; the Key is assigned once and never changes.
type Client struct {
	Key     string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Country string `json:"country,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// New creates a client with the required contact fields.
func New(name, email, phone string) (*Client, error) {
	c := &Client{
		Name:  name,
		Email: email,
		Phone: phone,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the client's invariants. The key may still be empty at
// this point; it is assigned by the identity normalizer before any write.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(c.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	if c.Email != "" && !emailRegex.MatchString(c.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(c.Email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if len(c.Phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	return nil
}

// MatchesContact reports whether this client matches the given contact
// fields. Matching is case-insensitive on name or email: a quote imported
// with either field matching an existing client must not create a
// duplicate record.
func (c *Client) MatchesContact(name, email string) bool {
	if name != "" && strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
		return true
	}
	if email != "" && c.Email != "" && strings.EqualFold(strings.TrimSpace(c.Email), strings.TrimSpace(email)) {
		return true
	}
	return false
}

// Clone returns a value copy of the client.
func (c *Client) Clone() *Client {
	dup := *c
	return &dup
}
