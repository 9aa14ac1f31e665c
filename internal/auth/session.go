// Package auth exposes the signed-in user to the scheduling screens. Signing
// in and token refresh belong to the host application.
package auth

// User is the identity of the signed-in client.
type User struct {
	ID        string
	Name      string
	AvatarURL string
}

// Session exposes the current user and the bearer token for API calls.
type Session interface {
	User() User
	Token() string
}

// StaticSession is a Session whose user and token never change.
type StaticSession struct {
	user  User
	token string
}

// NewStaticSession returns a session for a fixed user.
func NewStaticSession(user User, token string) *StaticSession {
	return &StaticSession{user: user, token: token}
}

func (s *StaticSession) User() User {
	if s == nil {
		return User{}
	}
	return s.user
}

func (s *StaticSession) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}
