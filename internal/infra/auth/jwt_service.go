package auth

import (
	"time"

	"eatery/config"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	tokenTypeAccess       = "access"
	defaultAccessTokenTTL = 15 * time.Minute
	tokenIssuer           = "eatery"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret []byte        // Secret key for signing access tokens.
	accessTTL    time.Duration // Time-to-live for access tokens.
	now          func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	ttl := defaultAccessTokenTTL
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		ttl = cfg.Auth.AccessTokenTTL
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		accessTTL:    ttl,
		now:          time.Now,
	}, nil
}

// GenerateAccessToken creates a signed access token whose subject is the user id.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, role string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.accessTTL)

	claims := &service.Claims{
		UserID: userID,
		Role:   role,
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return signed, expiresAt, nil
}

// ValidateToken verifies signature, expiry and token type.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(tokenIssuer))
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "failed to parse token structure")
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token expired")
	case err != nil:
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	case !token.Valid:
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	if claims.Type != tokenTypeAccess {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "unexpected token type")
	}
	if claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "subject mismatch")
	}

	return claims, nil
}
