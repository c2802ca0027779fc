package ratesclient

import "sync"

// TokenStore is the single holder of the session's token pair. All requests
// read the access token from here, and a refresh updates both tokens in one
// call so readers never observe a half-rotated pair.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(accessToken, refreshToken string)
	Clear()
}

// MemoryTokenStore is the default TokenStore, safe for concurrent use.
type MemoryTokenStore struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accessToken
}

func (s *MemoryTokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.refreshToken
}

func (s *MemoryTokenStore) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.refreshToken = ""
}
