package service

import (
	"context"
	"errors"
	"fmt"

	"expenses/logger"
	"expenses/models"
	"expenses/repository"
	"expenses/validation"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 邮箱不存在或密码错误，两种情况不做区分
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer 为用户签发访问令牌
type TokenIssuer func(userID, email string) (string, error)

// WelcomeSender 注册成功后的欢迎邮件
type WelcomeSender interface {
	Enabled() bool
	SendWelcomeEmail(toEmail, name string) error
}

// AuthResult 注册/登录返回
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService 注册、登录与当前用户查询
type AuthService struct {
	users      repository.UserRepository
	issue      TokenIssuer
	mailer     WelcomeSender
	log        *logger.Logger
	bcryptCost int
}

// NewAuthService 创建认证服务，mailer 可为 nil
func NewAuthService(users repository.UserRepository, issue TokenIssuer, mailer WelcomeSender, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		users:      users,
		issue:      issue,
		mailer:     mailer,
		log:        log.WithComponent(logger.ComponentAuth),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register 注册新用户并签发令牌
func (s *AuthService) Register(ctx context.Context, p validation.RegistrationPayload) (*AuthResult, error) {
	in, err := validation.Registration(p)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: in.Name, Email: in.Email, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", logger.FieldUserID, user.ID)
	s.sendWelcome(user)
	return &AuthResult{Token: token, User: user}, nil
}

// sendWelcome 异步发送，失败只记录日志
func (s *AuthService) sendWelcome(user *models.User) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	email, name := user.Email, user.Name
	go func() {
		if err := s.mailer.SendWelcomeEmail(email, name); err != nil {
			s.log.Warn("welcome email failed", logger.FieldError, err.Error())
		}
	}()
}

// Login 校验邮箱密码并签发令牌
func (s *AuthService) Login(ctx context.Context, p validation.LoginPayload) (*AuthResult, error) {
	in, err := validation.Login(p)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me 根据令牌中的用户 ID 查询用户，用户已不存在时返回 repository.ErrNotFound
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
