package token

import (
	authmw "bloomit/pkg/platform/middleware/auth"
)

type middlewareValidator struct {
	tokens *JWTService
}

// Validator exposes s to RequireAuth, which only knows the middleware's
// claim shape.
func (s *JWTService) Validator() authmw.JWTValidator {
	return middlewareValidator{tokens: s}
}

func (v middlewareValidator) ValidateToken(raw string) (*authmw.JWTClaims, error) {
	c, err := v.tokens.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		UserID:      c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		JTI:         c.ID,
	}, nil
}
