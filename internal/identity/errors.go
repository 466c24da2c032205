package identity

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"firebase.google.com/go/auth"
	"google.golang.org/api/googleapi"
)

// Normalised provider error codes. The popup codes are produced by the browser
// and passed through by the federated sign-in endpoint.
const (
	CodeInvalidEmail          = "auth/invalid-email"
	CodeUserDisabled          = "auth/user-disabled"
	CodeUserNotFound          = "auth/user-not-found"
	CodeWrongPassword         = "auth/wrong-password"
	CodeTooManyRequests       = "auth/too-many-requests"
	CodePopupClosedByUser     = "auth/popup-closed-by-user"
	CodePopupBlocked          = "auth/popup-blocked"
	CodeCancelledPopupRequest = "auth/cancelled-popup-request"
	CodeInvalidCredential     = "auth/invalid-credential"
	CodeEmailAlreadyInUse     = "auth/email-already-in-use"
	CodeWeakPassword          = "auth/weak-password"
	CodeNetworkRequestFailed  = "auth/network-request-failed"
	CodeInternalError         = "auth/internal-error"
	CodeExpiredActionCode     = "auth/expired-action-code"
	CodeInvalidActionCode     = "auth/invalid-action-code"
)

// Error is a failed identity provider call with its normalised code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Code + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error for a code reported outside the provider, e.g. by the popup.
func NewError(code string) *Error {
	return &Error{Code: code}
}

// CodeOf returns the provider code carried by err, or CodeInternalError.
func CodeOf(err error) string {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Code
	}
	return CodeInternalError
}

// toolkit REST errors come back as upper-case reasons, sometimes followed by
// " : detail".
var toolkitCodes = map[string]string{
	"INVALID_EMAIL":               CodeInvalidEmail,
	"USER_DISABLED":               CodeUserDisabled,
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"MISSING_PASSWORD":            CodeWrongPassword,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_ID_TOKEN":            CodeInvalidCredential,
	"EMAIL_EXISTS":                CodeEmailAlreadyInUse,
	"WEAK_PASSWORD":               CodeWeakPassword,
	"EXPIRED_OOB_CODE":            CodeExpiredActionCode,
	"INVALID_OOB_CODE":            CodeInvalidActionCode,
}

func fromToolkit(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		reason := gerr.Message
		if i := strings.IndexAny(reason, " :"); i >= 0 {
			reason = reason[:i]
		}
		if code, ok := toolkitCodes[reason]; ok {
			return &Error{Code: code, Err: err}
		}
		return &Error{Code: CodeInternalError, Err: err}
	}

	return &Error{Code: transportCode(err), Err: err}
}

func fromAdmin(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case auth.IsEmailAlreadyExists(err):
		return &Error{Code: CodeEmailAlreadyInUse, Err: err}
	case auth.IsUserNotFound(err):
		return &Error{Code: CodeUserNotFound, Err: err}
	}
	return &Error{Code: transportCode(err), Err: err}
}

// fromVerify maps a failed ID token check. Only an unreachable key or user
// endpoint is a network failure; anything else means the token is unusable.
func fromVerify(err error) error {
	if err == nil {
		return nil
	}
	if transportCode(err) == CodeNetworkRequestFailed {
		return &Error{Code: CodeNetworkRequestFailed, Err: err}
	}
	return &Error{Code: CodeInvalidCredential, Err: err}
}

func transportCode(err error) string {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return CodeNetworkRequestFailed
	}
	return CodeInternalError
}
