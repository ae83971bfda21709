package chat

import "github.com/openclaw/clawchat/pkg/models"

// SessionList holds the user's sessions in the order the gateway returned
// them (most recently updated first). The list is replaced wholesale on
// every refresh; the only local mutation is removal after a confirmed
// delete.
type SessionList struct {
	sessions []models.Session
}

func NewSessionList() *SessionList {
	return &SessionList{}
}

// Set replaces the list with a fresh gateway result.
func (l *SessionList) Set(sessions []models.Session) {
	l.sessions = sessions
}

func (l *SessionList) Sessions() []models.Session { return l.sessions }
func (l *SessionList) Len() int                   { return len(l.sessions) }

// Get returns the session at index i, or false when out of range.
func (l *SessionList) Get(i int) (models.Session, bool) {
	if i < 0 || i >= len(l.sessions) {
		return models.Session{}, false
	}
	return l.sessions[i], true
}

// Remove deletes the session with the given id locally. Called only after
// the gateway confirmed the deletion, so no rollback path exists.
func (l *SessionList) Remove(id string) bool {
	for i, s := range l.sessions {
		if s.SessionID == id {
			l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Title returns the display title for a session id, falling back to a
// placeholder when the session is unknown or untitled.
func (l *SessionList) Title(id string) string {
	for _, s := range l.sessions {
		if s.SessionID == id && s.Title != "" {
			return s.Title
		}
	}
	return "New conversation"
}
