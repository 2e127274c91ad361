package services

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a signed session token. The claims are the
// authoritative identity snapshot from issuance time.
type SessionClaims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Plan       string `json:"plan"`
	jwt.RegisteredClaims
}

// TokenService is the codec for the compact signed-claims token
// (header.payload.signature, base64url, HMAC-SHA256). It performs no I/O.
// Expiry checking belongs to the session authenticator, not the codec, so
// claim validation is disabled at the parser level.
type TokenService struct {
	parser *jwt.Parser
}

func NewTokenService() *TokenService {
	return &TokenService{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Decode parses the claims payload without verifying the signature. Used
// only for non-authoritative inspection (expiry logging on rejected tokens).
func (s *TokenService) Decode(token string) (*SessionClaims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformedToken
	}
	claims := &SessionClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, s.mapParseError(err)
	}
	return claims, nil
}

// VerifyAndDecode recomputes the HMAC-SHA256 signature over
// header.payload under the supplied secret and requires an exact match
// (constant-time, via the library's hmac.Equal) before decoding the claims.
func (s *TokenService) VerifyAndDecode(token string, secret []byte) (*SessionClaims, error) {
	if len(secret) == 0 {
		return nil, ErrSecretUnavailable
	}
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformedToken
	}

	claims := &SessionClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, s.mapParseError(err)
	}
	return claims, nil
}

// mapParseError folds jwt library errors into the typed failure set.
func (s *TokenService) mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// Unexpected signing method (alg=none downgrade attempts land here).
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		// A segment that is not valid base64url is a structural failure of
		// the token. Malformed claims means the payload decoded but its
		// JSON did not parse.
		var b64 base64.CorruptInputError
		if errors.As(err, &b64) {
			return ErrMalformedToken
		}
		return ErrMalformedClaims
	default:
		return ErrMalformedToken
	}
}
