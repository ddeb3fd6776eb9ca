package transport

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// SessionJar holds the photo service's session cookie. The service
// authenticates by cookie only, so signing out locally means dropping the jar.
type SessionJar struct {
	mu  sync.RWMutex
	jar http.CookieJar
}

// NewSessionJar creates an empty jar.
func NewSessionJar() *SessionJar {
	return &SessionJar{jar: newJar()}
}

// SetCookies implements http.CookieJar.
func (s *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (s *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	return jar.Cookies(u)
}

// Reset forgets every cookie.
func (s *SessionJar) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jar = newJar()
}

func newJar() http.CookieJar {
	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)
	return jar
}
