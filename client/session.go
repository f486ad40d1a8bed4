package client

import (
	"sync"

	"expenses/models"
)

// Session 当前登录态：令牌与用户信息，并发安全
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewSession 以已有令牌恢复登录态，token 为空表示未登录
func NewSession(token string, user *models.User) *Session {
	return &Session{token: token, user: user}
}

// Set 登录/注册成功后保存令牌与用户
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear 退出登录或令牌失效
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Token 当前令牌
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User 当前用户，未知时为 nil
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated 是否持有令牌
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
