package domain

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

var ErrInvalidMessage = errors.New("message needs text or an image")

// Message is one turn of the conversation. Image holds a data URL
// (data:<media type>;base64,<payload>) or is empty.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Image     string
	Timestamp time.Time
}

func (m Message) HasImage() bool {
	return m.Image != ""
}

func (m Message) Validate() error {
	if m.Text == "" && m.Image == "" {
		return ErrInvalidMessage
	}
	if m.Role != RoleUser && m.Role != RoleModel {
		return errors.New("unknown role " + string(m.Role))
	}
	return nil
}
