// Package auth owns the authentication state machine of the console:
// anonymous → pending-verification → authenticated.
//
// All state transitions go through the Controller. Each identity-changing
// transition bumps a generation counter; an operation applies its result only
// if the generation it started under is still current, so a superseded
// in-flight request (say, a verify resolving after logout) can never
// resurrect an authenticated state.
package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/attendly/attendly/internal/authz"
	"github.com/attendly/attendly/internal/errors"
	"github.com/attendly/attendly/internal/gateway"
	"github.com/attendly/attendly/internal/log"
	"github.com/attendly/attendly/internal/session"
)

// ResendCooldown is the client-side throttle between resend requests.
// Purely a UX measure; the server stays authoritative on any real rate limit.
const ResendCooldown = 60 * time.Second

// API is the slice of the gateway the controller drives
type API interface {
	Me(ctx context.Context) (*gateway.User, error)
	Login(ctx context.Context, email, password string) (*gateway.LoginPayload, error)
	Register(ctx context.Context, email, password, role string) (*gateway.RegisterPayload, error)
	SendOTP(ctx context.Context, email string) (*gateway.OTPPayload, error)
	ResendOTP(ctx context.Context, email string) (*gateway.OTPPayload, error)
	VerifyOTP(ctx context.Context, email, code string) (*gateway.VerifyOTPPayload, error)
	ResetStore()
}

// Controller owns the session state machine
type Controller struct {
	api    API
	store  session.Store
	logger *log.Logger

	mu              sync.Mutex
	phase           Phase
	user            *gateway.User
	pendingEmail    string
	gen             uint64
	resendNotBefore time.Time

	now func() time.Time
}

// NewController creates a controller in the loading phase
func NewController(api API, store session.Store, logger *log.Logger) *Controller {
	return &Controller{
		api:    api,
		store:  store,
		logger: logger.With("component", "auth"),
		phase:  PhaseLoading,
		now:    time.Now,
	}
}

// Snapshot returns the current derived session state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Phase: c.phase, Email: c.pendingEmail, User: c.user}
}

// HasPermission reports whether the current role grants the capability
func (c *Controller) HasPermission(capability authz.Capability) bool {
	return authz.HasPermission(c.Snapshot().Role(), capability)
}

// IsAdmin reports whether the current identity is an admin
func (c *Controller) IsAdmin() bool {
	return c.Snapshot().IsAdmin()
}

// LoginResult describes the outcome of a successful login call
type LoginResult struct {
	VerificationRequired bool
	Email                string
	Message              string
	DebugOTP             string
	User                 *gateway.User
}

// RegisterResult describes the outcome of a registration call
type RegisterResult struct {
	Success  bool
	Email    string
	Message  string
	DebugOTP string
}

// OTPResult describes the outcome of a send or resend call
type OTPResult struct {
	Success  bool
	Message  string
	DebugOTP string
}

// VerifyResult describes the outcome of an OTP verification call.
// Authenticated is true only when the result was applied: a verify that
// resolves after logout reports success without authenticating.
type VerifyResult struct {
	Success       bool
	Message       string
	Authenticated bool
	User          *gateway.User
}

// Bootstrap resolves the initial session state. With no stored token the
// state is immediately anonymous; otherwise the identity is fetched and the
// outcome decides the phase. On any identity failure that is not the
// OTP-required signal the token is purged: a token is never retained without
// a successful identity fetch or a recorded OTP-required condition.
func (c *Controller) Bootstrap(ctx context.Context) error {
	token, ok, err := c.store.Get()
	if err != nil {
		return err
	}
	if !ok || token == "" {
		c.apply(func() {
			c.phase = PhaseAnonymous
		})
		return nil
	}

	gen := c.generation()
	user, err := c.api.Me(ctx)
	if err != nil {
		if email, required := gateway.VerificationRequired(err); required {
			// Not a failure: recover into pending-verification. The token is
			// unusable until verified, so it is purged.
			_ = c.store.Clear()
			c.applyIfCurrent(gen, func() {
				c.phase = PhasePendingVerification
				c.pendingEmail = normalizeEmail(email)
				c.user = nil
			})
			c.logger.Info("bootstrap: verification required", "email", email)
			return nil
		}

		_ = c.store.Clear()
		c.applyIfCurrent(gen, func() {
			c.phase = PhaseAnonymous
			c.user = nil
			c.pendingEmail = ""
		})
		c.logger.WithError(err).Info("bootstrap: identity fetch failed, token purged")
		return nil
	}

	c.applyIfCurrent(gen, func() {
		c.phase = PhaseAuthenticated
		c.user = user
		c.pendingEmail = ""
	})
	c.logger.Info("bootstrap: authenticated", "email", user.Email, "role", user.Role)
	return nil
}

// Login authenticates with email and password.
//
// Three outcomes: verification required (pending state set, no token),
// authenticated (token stored, cache reset), or a credential error carrying
// the server's message verbatim.
func (c *Controller) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New(errors.ErrCodeValidationRequired, "password is required")
	}

	gen := c.generation()
	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, credentialError(err)
	}

	if result.RequiresOTPVerification {
		pendingEmail := normalizeEmail(result.Email)
		if pendingEmail == "" {
			pendingEmail = email
		}
		c.applyIfCurrent(gen, func() {
			c.phase = PhasePendingVerification
			c.pendingEmail = pendingEmail
			c.user = nil
		})
		c.logger.Info("login: verification required", "email", pendingEmail)
		return &LoginResult{
			VerificationRequired: true,
			Email:                pendingEmail,
			Message:              result.Message,
			DebugOTP:             result.OTP,
		}, nil
	}

	if result.Token != "" && result.User != nil {
		applied, err := c.authenticate(gen, result.Token, result.User)
		if err != nil {
			return nil, err
		}
		if applied {
			c.logger.Info("login: authenticated", "email", result.User.Email, "role", result.User.Role)
		}
		return &LoginResult{Email: email, User: result.User}, nil
	}

	return nil, errors.NewCredentialError(result.Message)
}

// Register creates an account. Registration never logs in directly: the
// outcome is always a pending verification for the registered email.
func (c *Controller) Register(ctx context.Context, email, password, role string) (*RegisterResult, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = string(authz.RoleEmployee)
	}

	gen := c.generation()
	result, err := c.api.Register(ctx, email, password, role)
	if err != nil {
		return nil, credentialError(err)
	}

	pendingEmail := normalizeEmail(result.Email)
	if pendingEmail == "" {
		pendingEmail = email
	}
	c.applyIfCurrent(gen, func() {
		c.phase = PhasePendingVerification
		c.pendingEmail = pendingEmail
		c.user = nil
	})
	c.logger.Info("registered, verification pending", "email", pendingEmail)

	return &RegisterResult{
		Success:  result.Success,
		Email:    pendingEmail,
		Message:  result.Message,
		DebugOTP: result.OTP,
	}, nil
}

// SendOTP requests a fresh verification code for email and records the
// pending verification.
func (c *Controller) SendOTP(ctx context.Context, email string) (*OTPResult, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	gen := c.generation()
	result, err := c.api.SendOTP(ctx, email)
	if err != nil {
		return nil, verificationError(err)
	}

	c.applyIfCurrent(gen, func() {
		c.phase = PhasePendingVerification
		c.pendingEmail = email
		c.user = nil
	})
	return &OTPResult{Success: result.Success, Message: result.Message, DebugOTP: result.OTP}, nil
}

// ResendOTP requests another verification code. A client-side cooldown
// rejects the call without any network traffic while it is active; the
// server may still apply its own rate limit.
func (c *Controller) ResendOTP(ctx context.Context, email string) (*OTPResult, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if remaining := c.resendNotBefore.Sub(c.now()); remaining > 0 {
		c.mu.Unlock()
		return nil, errors.New(errors.ErrCodeVerificationCooldown, "please wait before requesting another code")
	}
	gen := c.gen
	c.mu.Unlock()

	result, err := c.api.ResendOTP(ctx, email)
	if err != nil {
		return nil, verificationError(err)
	}

	c.applyIfCurrent(gen, func() {
		c.phase = PhasePendingVerification
		c.pendingEmail = email
		c.user = nil
		c.resendNotBefore = c.now().Add(ResendCooldown)
	})
	return &OTPResult{Success: result.Success, Message: result.Message, DebugOTP: result.OTP}, nil
}

// VerifyOTP submits a 6-digit code for the pending email.
//
// On success with token and identity the session becomes authenticated and
// the cache is reset. A success that arrives after a newer identity-changing
// transition (logout, another login) is reported but not applied. A success
// without a token is a message-only outcome with no transition. Failure
// leaves the pending state untouched so the caller may retry.
func (c *Controller) VerifyOTP(ctx context.Context, email, code string) (*VerifyResult, error) {
	email = normalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateCode(code); err != nil {
		return nil, err
	}

	gen := c.generation()
	result, err := c.api.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, verificationError(err)
	}

	if !result.Success {
		return nil, errors.NewVerificationError(result.Message)
	}

	if result.Token == "" || result.User == nil {
		// Success without a credential: surface the message, no transition.
		return &VerifyResult{Success: true, Message: result.Message}, nil
	}

	applied, err := c.authenticate(gen, result.Token, result.User)
	if err != nil {
		return nil, err
	}
	if !applied {
		c.logger.Info("verify result discarded: superseded by a newer transition", "email", email)
		return &VerifyResult{Success: true, Message: result.Message}, nil
	}
	c.logger.Info("verified, authenticated", "email", result.User.Email, "role", result.User.Role)

	return &VerifyResult{
		Success:       true,
		Message:       result.Message,
		Authenticated: true,
		User:          result.User,
	}, nil
}

// Logout purges the token and all session state. Idempotent: logging out
// while anonymous is safe. Bumping the generation here is what invalidates
// any still-outstanding verify or login result.
func (c *Controller) Logout() error {
	// The token purge happens under the state lock so it serializes against
	// authenticate: a verify result landing around a logout either commits
	// fully before it or is discarded by the generation bump.
	c.mu.Lock()
	if err := c.store.Clear(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.phase = PhaseAnonymous
	c.user = nil
	c.pendingEmail = ""
	c.gen++
	c.mu.Unlock()

	c.api.ResetStore()
	c.logger.Info("logged out")
	return nil
}

// ClearPendingVerification abandons a pending verification without logging
// anything out.
func (c *Controller) ClearPendingVerification() {
	c.apply(func() {
		if c.phase == PhasePendingVerification {
			c.phase = PhaseAnonymous
			c.pendingEmail = ""
		}
	})
}

// ResendAvailableIn returns how long until resend is accepted again.
// Zero means resend is available now.
func (c *Controller) ResendAvailableIn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if remaining := c.resendNotBefore.Sub(c.now()); remaining > 0 {
		return remaining
	}
	return 0
}

// authenticate applies an authenticated transition under the state lock.
// The token write happens inside the guarded section so a concurrent logout
// can neither be overwritten by nor interleave with a superseded result.
// Reports whether the transition was applied.
func (c *Controller) authenticate(gen uint64, token string, user *gateway.User) (bool, error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false, nil
	}

	if err := c.store.Set(token); err != nil {
		c.mu.Unlock()
		return false, err
	}

	c.phase = PhaseAuthenticated
	c.user = user
	c.pendingEmail = ""
	c.gen++
	c.mu.Unlock()

	c.api.ResetStore()
	return true, nil
}

// generation returns the current generation counter
func (c *Controller) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// apply runs fn under the state lock
func (c *Controller) apply(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// applyIfCurrent runs fn under the state lock only when gen is still the
// active generation, reporting whether it ran.
func (c *Controller) applyIfCurrent(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	fn()
	return true
}

// normalizeEmail trims whitespace and lowercases for case-insensitive
// matching.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// credentialError maps a gateway failure on a credential operation into the
// console taxonomy. Resolver errors become credential rejections with the
// server's message verbatim; transport errors pass through.
func credentialError(err error) error {
	var serverErr *gateway.ServerError
	if stderrors.As(err, &serverErr) {
		return errors.NewCredentialError(serverErr.Message)
	}
	return err
}

// verificationError maps a gateway failure on an OTP operation
func verificationError(err error) error {
	var serverErr *gateway.ServerError
	if stderrors.As(err, &serverErr) {
		return errors.NewVerificationError(serverErr.Message)
	}
	return err
}
