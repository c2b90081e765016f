package services

import (
	"errors"
	"os"
	"time"

	"task-tracker/backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthDisabled       = errors.New("operator authentication is not configured")
	ErrInvalidOperatorKey = errors.New("invalid operator key")
	ErrInvalidToken       = errors.New("invalid token")
)

// OperatorAuthService guards the mutating system endpoints. The operator key
// is checked against a bcrypt hash stored in settings and exchanged for a
// short-lived HS256 token. With no hash configured the endpoints stay open,
// matching a local single-tenant deployment.
type OperatorAuthService struct {
	settings *config.Store
	tokenTTL time.Duration
}

func NewOperatorAuthService(settings *config.Store) *OperatorAuthService {
	return &OperatorAuthService{settings: settings, tokenTTL: time.Hour}
}

func (s *OperatorAuthService) Enabled() bool {
	return s.settings.OperatorKeyHash() != ""
}

func (s *OperatorAuthService) secret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret_change_in_production"
	}
	return []byte(secret)
}

// IssueToken exchanges the operator key for a bearer token. Returns the token
// and its lifetime in seconds.
func (s *OperatorAuthService) IssueToken(key string) (string, int64, error) {
	hash := s.settings.OperatorKeyHash()
	if hash == "" {
		return "", 0, ErrAuthDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return "", 0, ErrInvalidOperatorKey
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "operator",
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret())
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.tokenTTL.Seconds()), nil
}

func (s *OperatorAuthService) ValidateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret(), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// HashOperatorKey produces the bcrypt hash to store under
// api.operator_key_hash when provisioning an operator key.
func HashOperatorKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
