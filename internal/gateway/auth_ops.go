package gateway

import "context"

// User is the identity returned by the server. A user account may exist
// without a linked employee record.
type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Role     string       `json:"role"`
	Employee *EmployeeRef `json:"employee"`
}

// EmployeeRef is the employee profile linked to a user account, if any
type EmployeeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoginPayload is the result of the login mutation
type LoginPayload struct {
	Token                   string `json:"token"`
	User                    *User  `json:"user"`
	Success                 bool   `json:"success"`
	Message                 string `json:"message"`
	RequiresOTPVerification bool   `json:"requiresOTPVerification"`
	Email                   string `json:"email"`
	OTP                     string `json:"otp"`
}

// RegisterPayload is the result of the register mutation
type RegisterPayload struct {
	Success                 bool   `json:"success"`
	Message                 string `json:"message"`
	Email                   string `json:"email"`
	RequiresOTPVerification bool   `json:"requiresOTPVerification"`
	OTP                     string `json:"otp"`
}

// OTPPayload is the result of the sendOTP and resendOTP mutations
type OTPPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp"`
}

// VerifyOTPPayload is the result of the verifyOTP mutation
type VerifyOTPPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

const userSelection = `
      id
      email
      role
      employee {
        id
        name
      }`

const meQuery = `
  query Me {
    me {` + userSelection + `
    }
  }`

const loginMutation = `
  mutation Login($input: LoginInput!) {
    login(input: $input) {
      token
      user {` + userSelection + `
      }
      success
      message
      requiresOTPVerification
      email
      otp
    }
  }`

const registerMutation = `
  mutation Register($input: RegisterInput!) {
    register(input: $input) {
      success
      message
      email
      requiresOTPVerification
      otp
    }
  }`

const sendOTPMutation = `
  mutation SendOTP($input: SendOTPInput!) {
    sendOTP(input: $input) {
      success
      message
      otp
    }
  }`

const resendOTPMutation = `
  mutation ResendOTP($input: SendOTPInput!) {
    resendOTP(input: $input) {
      success
      message
      otp
    }
  }`

const verifyOTPMutation = `
  mutation VerifyOTP($input: VerifyOTPInput!) {
    verifyOTP(input: $input) {
      success
      message
      token
      user {` + userSelection + `
      }
    }
  }`

// Me fetches the current identity. Always network-only: a cached identity is
// exactly the stale security-relevant data the cache must not serve.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		Me *User `json:"me"`
	}

	_, err := c.Query(ctx, QuerySpec{
		Name:     "Me",
		Document: meQuery,
		Policy:   PolicyNetworkOnly,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Me, nil
}

// Login calls the login mutation
func (c *Client) Login(ctx context.Context, email, password string) (*LoginPayload, error) {
	var resp struct {
		Login *LoginPayload `json:"login"`
	}

	vars := map[string]any{
		"input": map[string]any{"email": email, "password": password},
	}
	if err := c.Mutate(ctx, "Login", loginMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Login, nil
}

// Register calls the register mutation
func (c *Client) Register(ctx context.Context, email, password, role string) (*RegisterPayload, error) {
	var resp struct {
		Register *RegisterPayload `json:"register"`
	}

	vars := map[string]any{
		"input": map[string]any{"email": email, "password": password, "role": role},
	}
	if err := c.Mutate(ctx, "Register", registerMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Register, nil
}

// SendOTP calls the sendOTP mutation
func (c *Client) SendOTP(ctx context.Context, email string) (*OTPPayload, error) {
	var resp struct {
		SendOTP *OTPPayload `json:"sendOTP"`
	}

	vars := map[string]any{"input": map[string]any{"email": email}}
	if err := c.Mutate(ctx, "SendOTP", sendOTPMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.SendOTP, nil
}

// ResendOTP calls the resendOTP mutation
func (c *Client) ResendOTP(ctx context.Context, email string) (*OTPPayload, error) {
	var resp struct {
		ResendOTP *OTPPayload `json:"resendOTP"`
	}

	vars := map[string]any{"input": map[string]any{"email": email}}
	if err := c.Mutate(ctx, "ResendOTP", resendOTPMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.ResendOTP, nil
}

// VerifyOTP calls the verifyOTP mutation
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*VerifyOTPPayload, error) {
	var resp struct {
		VerifyOTP *VerifyOTPPayload `json:"verifyOTP"`
	}

	vars := map[string]any{"input": map[string]any{"email": email, "otp": code}}
	if err := c.Mutate(ctx, "VerifyOTP", verifyOTPMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.VerifyOTP, nil
}
