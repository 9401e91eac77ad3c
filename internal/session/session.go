// Package session holds the tab-lifetime admin flag that gates the catalog's
// admin operations. It is the only authorization context in the system: a
// single boolean, set by login, cleared by logout, queried by the admin
// guard.
package session

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

const adminKey = "admin"

// Manager wraps scs with the narrow flag interface.
type Manager struct {
	*scs.SessionManager
	password string
}

// NewManager creates a session manager backed by scs's in-memory store. The
// cookie is non-persistent, so the flag lives exactly as long as the browser
// session: closing the tab is logout.
func NewManager(password string) *Manager {
	sm := scs.New()
	sm.Lifetime = 12 * time.Hour
	sm.Cookie.Name = "ansuz_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Persist = false
	sm.Cookie.Path = "/"
	return &Manager{SessionManager: sm, password: password}
}

// SignIn sets the admin flag after verifying the supplied password in
// constant time. Returns false on a wrong password.
func (m *Manager) SignIn(r *http.Request, password string) (bool, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) != 1 {
		return false, nil
	}
	// Renew the token so a pre-login session id is never promoted to admin.
	if err := m.RenewToken(r.Context()); err != nil {
		return false, err
	}
	m.Put(r.Context(), adminKey, true)
	return true, nil
}

// SignOut clears the flag and invalidates the session.
func (m *Manager) SignOut(r *http.Request) error {
	return m.Destroy(r.Context())
}

// IsAdmin reports whether the request carries the admin flag.
func (m *Manager) IsAdmin(r *http.Request) bool {
	return m.GetBool(r.Context(), adminKey)
}
