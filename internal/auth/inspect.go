package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken covers tokens whose payload cannot be read.
	ErrMalformedToken = errors.New("malformed token")
	// ErrNoExpiry is returned when the payload carries no usable exp claim.
	ErrNoExpiry = errors.New("token has no expiry")
)

// segmentParser decodes base64url segments and tolerates padding.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodePayload returns the claims of the token's middle segment.
// The signature is not checked; the result says nothing about authenticity.
func DecodePayload(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected header.payload.signature", ErrMalformedToken)
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrMalformedToken, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedToken)
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of token. A zero exp counts as missing.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := DecodePayload(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil || exp.Unix() == 0 {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// IsExpired reports whether token is unusable at the current wall-clock time.
func IsExpired(token string) bool {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt is true when the payload cannot be decoded, has no exp, or
// exp is strictly before now (compared in whole epoch seconds).
func IsExpiredAt(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return exp.Unix() < now.Unix()
}
