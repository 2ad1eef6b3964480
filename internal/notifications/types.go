package notifications

import (
	"fmt"
	"time"
)

// Kind indicates how urgent a notification is.
type Kind string

const (
	KindInfo    Kind = "info"
	KindAlerta  Kind = "alerta"
	KindUrgente Kind = "urgente"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindAlerta, KindUrgente:
		return true
	}
	return false
}

// Notification is a message shown on the notifications page. Message is
// markdown.
type Notification struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Mensagem  string    `json:"mensagem"`
	Tipo      Kind      `json:"tipo"`
	Lida      bool      `json:"lida"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to store a notification.
func (n Notification) Validate() error {
	if n.Titulo == "" || n.Mensagem == "" {
		return fmt.Errorf("titulo and mensagem are required")
	}
	if n.Tipo != "" && !n.Tipo.Valid() {
		return fmt.Errorf("invalid tipo %q", n.Tipo)
	}
	return nil
}
