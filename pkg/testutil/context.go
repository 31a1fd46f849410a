package testutil

import (
	"net/http"

	id "bloomit/pkg/domain"
	"bloomit/pkg/requestcontext"
)

// WithIdentity adds the values the auth middleware would set for an
// authenticated request. Invalid user IDs are silently ignored.
func WithIdentity(req *http.Request, userID, email string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if email != "" {
		ctx = requestcontext.WithEmail(ctx, email)
	}
	return req.WithContext(ctx)
}

// WithAccessToken attaches the raw bearer token as the auth middleware would.
func WithAccessToken(req *http.Request, token, jti string) *http.Request {
	ctx := requestcontext.WithAccessToken(req.Context(), token)
	ctx = requestcontext.WithTokenID(ctx, jti)
	return req.WithContext(ctx)
}
