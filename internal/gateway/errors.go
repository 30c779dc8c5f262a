package gateway

import (
	stderrors "errors"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/attendly/attendly/internal/errors"
)

// otpRequiredCode is the extension code the server attaches to a failed
// identity query when the account's email is not yet confirmed.
const otpRequiredCode = "OTP_REQUIRED"

// Client-internal extension codes the transport library uses for failures
// that never reached a resolver.
const (
	requestErrorCode    = "request_error"
	invalidResponseCode = "invalid_graphql_response"
)

// ServerError is a GraphQL error raised by a resolver, with the extension
// fields the console cares about.
type ServerError struct {
	Message string
	Code    string
	Email   string
}

// Error implements the error interface. The server's message is surfaced
// verbatim.
func (e *ServerError) Error() string {
	return e.Message
}

// mapError converts transport-library failures into the console error
// taxonomy. GraphQL errors raised by resolvers keep their message and
// extensions; everything below that level is a transport failure.
func mapError(err error) error {
	var gqlErrs graphql.Errors
	if stderrors.As(err, &gqlErrs) && len(gqlErrs) > 0 {
		first := gqlErrs[0]
		code, _ := first.Extensions["code"].(string)

		switch code {
		case requestErrorCode:
			return errors.NewTransportError(first)
		case invalidResponseCode:
			return errors.NewMalformedResponseError(first)
		}

		email, _ := first.Extensions["email"].(string)
		return &ServerError{Message: first.Message, Code: code, Email: email}
	}

	return errors.NewTransportError(err)
}

// VerificationRequired reports whether err is the server's OTP-required
// signal, returning the associated email when it is. This is control flow,
// not a failure: callers recover it into pending-verification state.
func VerificationRequired(err error) (string, bool) {
	var serverErr *ServerError
	if stderrors.As(err, &serverErr) && serverErr.Code == otpRequiredCode {
		return serverErr.Email, true
	}
	return "", false
}
