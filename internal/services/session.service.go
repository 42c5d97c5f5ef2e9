package services

import (
	"time"

	"aotd/config"
	. "aotd/internal/models"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionDuration = 7 * 24 * time.Hour

// SessionService issues and validates the signed session tokens handed out
// after a Discord login.
type SessionService struct {
	secret []byte
	clock  *utils.Clock
	log    logger.Logger
}

func NewSessionService(clock *utils.Clock, config config.Config) *SessionService {
	return &SessionService{
		secret: []byte(config.SessionSecret),
		clock:  clock,
		log:    logger.New("sessionService"),
	}
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed session token for the user.
func (s *SessionService) IssueToken(userID uuid.UUID) (string, error) {
	log := s.log.Function("IssueToken")

	now := s.clock.Now()
	claims := sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "aotd",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign session token", err, "userID", userID)
	}

	return token, nil
}

// ValidateToken verifies a session token and returns the user ID it carries.
// Any parse, signature, or expiry failure maps to ErrUnauthenticated.
func (s *SessionService) ValidateToken(tokenString string) (uuid.UUID, error) {
	log := s.log.Function("ValidateToken")

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, log.ErrorWithType(ErrUnauthenticated, "session token carries invalid user id")
	}

	return userID, nil
}
