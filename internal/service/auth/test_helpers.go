package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for predictable expiry testing. Intended for use from tests only.
func NewTestJWTService(secret string, tokenLifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      timeFunc,
		clockSkew:     0, // No leeway in tests so expiry boundaries are exact
	}
}
