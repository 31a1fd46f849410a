package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"bloomit/internal/identity/models"
	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/platform/httputil"
	"bloomit/pkg/requestcontext"
)

// AuthService is the identity provider as seen by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Logout(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, req models.ResetConfirmation) error
	Verify(ctx context.Context, accessToken string) (*models.Identity, error)
}

// ActivityLog lists a user's audit trail.
type ActivityLog interface {
	List(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

// ResetPasswordRequest asks for a reset code to be sent to Email.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityEntry is the public view of one audit event.
type ActivityEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Device    string    `json:"device,omitempty"`
}

const resetRequestedMessage = "If an account exists for that address, a reset code is on its way."

type AuthHandler struct {
	auth     AuthService
	activity ActivityLog
	logger   *slog.Logger
	throttle func(http.Handler) http.Handler
}

type AuthHandlerOption func(*AuthHandler)

// WithThrottle guards the unauthenticated routes, typically with a per-IP
// rate limit.
func WithThrottle(mw func(http.Handler) http.Handler) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.throttle = mw
	}
}

func NewAuthHandler(auth AuthService, activity ActivityLog, logger *slog.Logger, opts ...AuthHandlerOption) *AuthHandler {
	h := &AuthHandler{auth: auth, activity: activity, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the /auth routes. requireAuth guards the bearer-only ones.
func (h *AuthHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.throttle != nil {
				r.Use(h.throttle)
			}
			r.Post("/register", h.handleRegister)
			r.Post("/login", h.handleLogin)
			r.Post("/reset-password", h.handleResetPassword)
			r.Post("/reset-password/confirm", h.handleConfirmReset)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", h.handleLogout)
			r.Get("/me", h.handleMe)
			r.Get("/me/activity", h.handleActivity)
		})
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, http.StatusCreated, h.auth.Register)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, http.StatusOK, h.auth.Login)
}

func (h *AuthHandler) authenticate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	call func(context.Context, models.Credentials) (*models.AuthResult, error),
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var creds models.Credentials
	if err := httputil.DecodeJSON(r, &creds); err != nil {
		h.logger.WarnContext(ctx, "invalid credentials body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	creds.Normalize()
	if err := creds.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := call(ctx, creds)
	if err != nil {
		h.writeServiceError(ctx, w, "authentication failed", err)
		return
	}
	httputil.WriteJSON(w, status, result)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx, requestcontext.AccessToken(ctx)); err != nil {
		h.writeServiceError(ctx, w, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := h.auth.Verify(ctx, requestcontext.AccessToken(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, "verify failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

func (h *AuthHandler) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	events, err := h.activity.List(ctx, userID)
	if err != nil {
		h.writeServiceError(ctx, w, "activity lookup failed", err)
		return
	}
	out := make([]ActivityEntry, 0, len(events))
	for _, e := range events {
		out = append(out, ActivityEntry{Action: e.Action, Timestamp: e.Timestamp, Device: e.Device})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ResetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	if !govalidator.StringLength(req.Email, "3", "255") || !govalidator.IsEmail(req.Email) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid email"))
		return
	}

	if err := h.auth.ResetPassword(ctx, req.Email); err != nil {
		h.writeServiceError(ctx, w, "reset request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, MessageResponse{Message: resetRequestedMessage})
}

func (h *AuthHandler) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.ResetConfirmation
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.auth.ConfirmPasswordReset(ctx, req); err != nil {
		h.writeServiceError(ctx, w, "reset confirmation failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
