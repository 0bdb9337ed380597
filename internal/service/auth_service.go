package service

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// AuthService — вход в шлюз. Шлюз однопользовательский: учётная запись
// задаётся конфигурацией, идентификатор детерминированно выводится из
// имени пользователя.
type AuthService struct {
	username     string
	passwordHash string
	tokens       *TokenManager
}

// NewAuthService создаёт сервис авторизации.
func NewAuthService(username, passwordHash string, tokens *TokenManager) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// Login сверяет учётные данные и выпускает пару токенов.
func (s *AuthService) Login(username, password string) (*TokenPair, *models.User, error) {
	if username == "" {
		return nil, nil, apperror.MissingArgument("username")
	}
	if password == "" {
		return nil, nil, apperror.MissingArgument("password")
	}

	if username != s.username {
		return nil, nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}

	user := s.user()
	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return pair, user, nil
}

// Refresh выпускает новую пару токенов по валидному refresh токену.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if claims.Subject != s.user().ID {
		return nil, apperror.ErrUnauthorized
	}

	pair, err := s.tokens.GeneratePair(s.user())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return pair, nil
}

func (s *AuthService) user() *models.User {
	return &models.User{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("bazaar-gateway:"+s.username)).String(),
		Username: s.username,
	}
}
