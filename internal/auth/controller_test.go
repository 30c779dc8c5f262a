package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/authz"
	"github.com/attendly/attendly/internal/errors"
	"github.com/attendly/attendly/internal/gateway"
	"github.com/attendly/attendly/internal/log"
	"github.com/attendly/attendly/internal/session"
)

// fakeAPI implements API with programmable responses and call counters
type fakeAPI struct {
	meUser *gateway.User
	meErr  error

	loginFn    func(email, password string) (*gateway.LoginPayload, error)
	registerFn func(email, password, role string) (*gateway.RegisterPayload, error)
	sendFn     func(email string) (*gateway.OTPPayload, error)
	resendFn   func(email string) (*gateway.OTPPayload, error)
	verifyFn   func(email, code string) (*gateway.VerifyOTPPayload, error)

	resendCalls int
	resetCalls  int

	lastLoginEmail string
}

func (f *fakeAPI) Me(ctx context.Context) (*gateway.User, error) {
	return f.meUser, f.meErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*gateway.LoginPayload, error) {
	f.lastLoginEmail = email
	return f.loginFn(email, password)
}

func (f *fakeAPI) Register(ctx context.Context, email, password, role string) (*gateway.RegisterPayload, error) {
	return f.registerFn(email, password, role)
}

func (f *fakeAPI) SendOTP(ctx context.Context, email string) (*gateway.OTPPayload, error) {
	return f.sendFn(email)
}

func (f *fakeAPI) ResendOTP(ctx context.Context, email string) (*gateway.OTPPayload, error) {
	f.resendCalls++
	return f.resendFn(email)
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, email, code string) (*gateway.VerifyOTPPayload, error) {
	return f.verifyFn(email, code)
}

func (f *fakeAPI) ResetStore() {
	f.resetCalls++
}

func testUser() *gateway.User {
	return &gateway.User{
		ID:    "u1",
		Email: "user@example.com",
		Role:  "EMPLOYEE",
	}
}

func testAdmin() *gateway.User {
	return &gateway.User{ID: "a1", Email: "admin@example.com", Role: "ADMIN"}
}

func newTestController(api *fakeAPI) (*Controller, *session.MemoryStore) {
	store := session.NewMemoryStore()
	logger := log.New(log.Config{Level: log.LevelError, Output: log.NewOutput(io.Discard)})
	return NewController(api, store, logger), store
}

func TestBootstrapNoToken(t *testing.T) {
	ctrl, _ := newTestController(&fakeAPI{})

	require.NoError(t, ctrl.Bootstrap(context.Background()))

	assert.Equal(t, PhaseAnonymous, ctrl.Snapshot().Phase)
}

func TestBootstrapIdentitySuccess(t *testing.T) {
	api := &fakeAPI{meUser: testUser()}
	ctrl, store := newTestController(api)
	require.NoError(t, store.Set("valid-token"))

	require.NoError(t, ctrl.Bootstrap(context.Background()))

	snap := ctrl.Snapshot()
	assert.Equal(t, PhaseAuthenticated, snap.Phase)
	assert.Equal(t, "user@example.com", snap.User.Email)

	token, ok, _ := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "valid-token", token)
}

func TestBootstrapRefreshesChangedIdentity(t *testing.T) {
	api := &fakeAPI{meUser: testUser()}
	ctrl, store := newTestController(api)
	require.NoError(t, store.Set("valid-token"))
	require.NoError(t, ctrl.Bootstrap(context.Background()))

	// The server-side profile changed (a name update, a role grant); a
	// re-bootstrap must replace the cached identity, not keep the old one.
	api.meUser = &gateway.User{
		ID:       "u1",
		Email:    "user@example.com",
		Role:     "ADMIN",
		Employee: &gateway.EmployeeRef{ID: "e1", Name: "Ada King"},
	}
	require.NoError(t, ctrl.Bootstrap(context.Background()))

	snap := ctrl.Snapshot()
	assert.Equal(t, PhaseAuthenticated, snap.Phase)
	assert.Equal(t, authz.RoleAdmin, snap.Role())
	require.NotNil(t, snap.User.Employee)
	assert.Equal(t, "Ada King", snap.User.Employee.Name)
}

func TestBootstrapOTPRequired(t *testing.T) {
	api := &fakeAPI{meErr: &gateway.ServerError{
		Message: "Email not verified",
		Code:    "OTP_REQUIRED",
		Email:   "User@Example.com",
	}}
	ctrl, store := newTestController(api)
	require.NoError(t, store.Set("unverified-token"))

	require.NoError(t, ctrl.Bootstrap(context.Background()))

	snap := ctrl.Snapshot()
	assert.Equal(t, PhasePendingVerification, snap.Phase)
	assert.Equal(t, "user@example.com", snap.Email)

	// The token is unusable until verified and must be purged.
	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestBootstrapOtherErrorPurgesToken(t *testing.T) {
	api := &fakeAPI{meErr: &gateway.ServerError{Message: "token expired", Code: "UNAUTHENTICATED"}}
	ctrl, store := newTestController(api)
	require.NoError(t, store.Set("expired-token"))

	require.NoError(t, ctrl.Bootstrap(context.Background()))

	assert.Equal(t, PhaseAnonymous, ctrl.Snapshot().Phase)
	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestLoginSuccess(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{Token: "fresh-token", User: testUser(), Success: true}, nil
		},
	}
	ctrl, store := newTestController(api)

	result, err := ctrl.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, result.VerificationRequired)
	assert.Equal(t, "user@example.com", result.User.Email)

	snap := ctrl.Snapshot()
	assert.Equal(t, PhaseAuthenticated, snap.Phase)

	token, ok, _ := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "fresh-token", token)

	// Cache must be reset exactly once on the identity change.
	assert.Equal(t, 1, api.resetCalls)
}

func TestLoginNormalizesEmail(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{Token: "t", User: testUser(), Success: true}, nil
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.Login(context.Background(), "  User@EXAMPLE.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", api.lastLoginEmail)
}

func TestLoginVerificationRequired(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{
				RequiresOTPVerification: true,
				Email:                   email,
				Message:                 "Check your inbox",
			}, nil
		},
	}
	ctrl, store := newTestController(api)

	result, err := ctrl.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, result.VerificationRequired)
	assert.Equal(t, "user@example.com", result.Email)
	assert.Equal(t, "Check your inbox", result.Message)

	snap := ctrl.Snapshot()
	assert.Equal(t, PhasePendingVerification, snap.Phase)

	// Verification-required never stores a token.
	_, ok, _ := store.Get()
	assert.False(t, ok)
	assert.Zero(t, api.resetCalls)
}

func TestLoginRejected(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{Success: false, Message: "Invalid email or password"}, nil
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.Login(context.Background(), "user@example.com", "wrongpass")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", errors.MessageOf(err))
	assert.Equal(t, PhaseLoading, ctrl.Snapshot().Phase)
}

func TestLoginNoAccount(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return nil, &gateway.ServerError{Message: "No account exists with this email"}
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.Login(context.Background(), "new@example.com", "secret123")
	require.Error(t, err)
	assert.True(t, errors.IsNoAccount(err))
}

func TestLoginTransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.NewTransportError(assert.AnError)
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return nil, transportErr
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.Login(context.Background(), "user@example.com", "secret123")
	assert.True(t, errors.IsTransport(err))
}

func TestLoginThenLogoutEndsAnonymous(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{Token: "t", User: testUser(), Success: true}, nil
		},
	}
	ctrl, store := newTestController(api)

	_, err := ctrl.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, ctrl.Logout())

	assert.Equal(t, PhaseAnonymous, ctrl.Snapshot().Phase)
	_, ok, _ := store.Get()
	assert.False(t, ok, "no token may survive logout")
}

func TestLogoutIdempotent(t *testing.T) {
	ctrl, _ := newTestController(&fakeAPI{})

	require.NoError(t, ctrl.Logout())
	require.NoError(t, ctrl.Logout())
	assert.Equal(t, PhaseAnonymous, ctrl.Snapshot().Phase)
}

func TestRegisterAlwaysPending(t *testing.T) {
	api := &fakeAPI{
		registerFn: func(email, password, role string) (*gateway.RegisterPayload, error) {
			return &gateway.RegisterPayload{
				Success:                 true,
				Email:                   email,
				Message:                 "Code sent",
				RequiresOTPVerification: true,
			}, nil
		},
	}
	ctrl, store := newTestController(api)

	result, err := ctrl.Register(context.Background(), "new@example.com", "secret123", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "new@example.com", result.Email)

	snap := ctrl.Snapshot()
	assert.Equal(t, PhasePendingVerification, snap.Phase, "registration never authenticates directly")
	assert.Equal(t, "new@example.com", snap.Email)

	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	ctrl, _ := newTestController(&fakeAPI{})

	_, err := ctrl.Register(context.Background(), "new@example.com", "short", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = ctrl.Register(context.Background(), "not-an-email", "secret123", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestVerifyOTPSuccess(t *testing.T) {
	api := &fakeAPI{
		verifyFn: func(email, code string) (*gateway.VerifyOTPPayload, error) {
			return &gateway.VerifyOTPPayload{
				Success: true,
				Message: "Email verified",
				Token:   "verified-token",
				User:    testUser(),
			}, nil
		},
	}
	ctrl, store := newTestController(api)

	result, err := ctrl.VerifyOTP(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Authenticated)

	snap := ctrl.Snapshot()
	assert.Equal(t, PhaseAuthenticated, snap.Phase)
	assert.Empty(t, snap.Email)

	token, ok, _ := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "verified-token", token)
	assert.Equal(t, 1, api.resetCalls)
}

func TestVerifyOTPFailureKeepsPending(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{RequiresOTPVerification: true, Email: email}, nil
		},
		verifyFn: func(email, code string) (*gateway.VerifyOTPPayload, error) {
			return &gateway.VerifyOTPPayload{Success: false, Message: "Invalid code"}, nil
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)

	_, err = ctrl.VerifyOTP(context.Background(), "user@example.com", "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid code", errors.MessageOf(err))

	snap := ctrl.Snapshot()
	assert.Equal(t, PhasePendingVerification, snap.Phase, "failed verification keeps the pending state for retry")
	assert.Equal(t, "user@example.com", snap.Email)
}

func TestVerifyOTPSuccessWithoutToken(t *testing.T) {
	api := &fakeAPI{
		verifyFn: func(email, code string) (*gateway.VerifyOTPPayload, error) {
			return &gateway.VerifyOTPPayload{Success: true, Message: "Verified"}, nil
		},
	}
	ctrl, store := newTestController(api)

	result, err := ctrl.VerifyOTP(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Authenticated, "success without a token is a message-only outcome")

	assert.NotEqual(t, PhaseAuthenticated, ctrl.Snapshot().Phase)
	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestVerifyOTPCodeValidation(t *testing.T) {
	ctrl, _ := newTestController(&fakeAPI{})

	_, err := ctrl.VerifyOTP(context.Background(), "user@example.com", "12345")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = ctrl.VerifyOTP(context.Background(), "user@example.com", "12a456")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestLogoutDuringVerifyDiscardsResult(t *testing.T) {
	var ctrl *Controller

	api := &fakeAPI{}
	api.verifyFn = func(email, code string) (*gateway.VerifyOTPPayload, error) {
		// The user logs out while the verify call is still in flight.
		require.NoError(t, ctrl.Logout())
		return &gateway.VerifyOTPPayload{
			Success: true,
			Message: "Email verified",
			Token:   "late-token",
			User:    testUser(),
		}, nil
	}

	var store *session.MemoryStore
	ctrl, store = newTestController(api)

	result, err := ctrl.VerifyOTP(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, result.Authenticated, "a superseded verify result must not be applied")

	assert.Equal(t, PhaseAnonymous, ctrl.Snapshot().Phase)
	_, ok, _ := store.Get()
	assert.False(t, ok, "the late token must not be retained")
}

func TestResendCooldown(t *testing.T) {
	api := &fakeAPI{
		resendFn: func(email string) (*gateway.OTPPayload, error) {
			return &gateway.OTPPayload{Success: true, Message: "Code sent"}, nil
		},
	}
	ctrl, _ := newTestController(api)

	current := time.Unix(1000, 0)
	ctrl.now = func() time.Time { return current }

	_, err := ctrl.ResendOTP(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, api.resendCalls)

	// Within the cooldown the second attempt is rejected without a network
	// call.
	current = current.Add(30 * time.Second)
	_, err = ctrl.ResendOTP(context.Background(), "user@example.com")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeVerificationCooldown, errors.CodeOf(err))
	assert.Equal(t, 1, api.resendCalls)
	assert.Equal(t, 30*time.Second, ctrl.ResendAvailableIn())

	// After the cooldown resend goes through again.
	current = current.Add(31 * time.Second)
	_, err = ctrl.ResendOTP(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, api.resendCalls)
}

func TestSendOTPSetsPending(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(email string) (*gateway.OTPPayload, error) {
			return &gateway.OTPPayload{Success: true, Message: "Code sent"}, nil
		},
	}
	ctrl, _ := newTestController(api)

	result, err := ctrl.SendOTP(context.Background(), "User@Example.com")
	require.NoError(t, err)
	assert.True(t, result.Success)

	snap := ctrl.Snapshot()
	assert.Equal(t, PhasePendingVerification, snap.Phase)
	assert.Equal(t, "user@example.com", snap.Email)
}

func TestClearPendingVerification(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(email string) (*gateway.OTPPayload, error) {
			return &gateway.OTPPayload{Success: true}, nil
		},
	}
	ctrl, _ := newTestController(api)

	_, err := ctrl.SendOTP(context.Background(), "user@example.com")
	require.NoError(t, err)

	ctrl.ClearPendingVerification()

	snap := ctrl.Snapshot()
	assert.Equal(t, PhaseAnonymous, snap.Phase)
	assert.Empty(t, snap.Email)
}

func TestPermissions(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(email, password string) (*gateway.LoginPayload, error) {
			return &gateway.LoginPayload{Token: "t", User: testAdmin(), Success: true}, nil
		},
	}
	ctrl, _ := newTestController(api)

	assert.False(t, ctrl.HasPermission(authz.CapViewOwn), "anonymous holds no capabilities")

	_, err := ctrl.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	assert.True(t, ctrl.IsAdmin())
	assert.True(t, ctrl.HasPermission(authz.CapManageSubjects))
	assert.True(t, ctrl.HasPermission(authz.CapViewOwn))
}
