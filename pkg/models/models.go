package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session represents a persisted conversation thread on the gateway.
type Session struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Message is one turn in a session as stored by the gateway.
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// User is the authenticated gateway user, shown in the TUI header.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Persona is the active assistant persona, shown in the TUI header.
type Persona struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji,omitempty"`
	Active bool   `json:"active,omitempty"`
}
