package gate

import "health-insurance-web/internal/identity"

const (
	TitleSignInFailed = "Sign-in Failed"
	TitleSignUpFailed = "Sign-up Failed"

	MessageGeneric = "Something went wrong. Please try again."
)

var friendlyMessages = map[string]string{
	identity.CodeInvalidEmail:          "The email address is badly formatted.",
	identity.CodeUserDisabled:          "This account has been disabled. Please contact support.",
	identity.CodeUserNotFound:          "No account was found with this email address.",
	identity.CodeWrongPassword:         "Incorrect password. Please try again.",
	identity.CodeTooManyRequests:       "Too many attempts. Please wait a moment and try again.",
	identity.CodePopupClosedByUser:     "The sign-in window was closed before completing. Please try again.",
	identity.CodePopupBlocked:          "The sign-in window was blocked by your browser. Please allow popups and try again.",
	identity.CodeCancelledPopupRequest: "Only one sign-in window can be open at a time.",
	identity.CodeInvalidCredential:     "Invalid email or password.",
	identity.CodeEmailAlreadyInUse:     "An account with this email address already exists.",
	identity.CodeWeakPassword:          "Password should be at least 6 characters.",
	identity.CodeNetworkRequestFailed:  "Network error. Please check your connection and try again.",
	identity.CodeInternalError:         "An internal error occurred. Please try again later.",
	identity.CodeExpiredActionCode:     "This reset link has expired. Please request a new one.",
	identity.CodeInvalidActionCode:     "This reset link is invalid or has already been used.",
}

// FriendlyMessage maps a provider error code to the text shown to people.
func FriendlyMessage(code string) string {
	if msg, ok := friendlyMessages[code]; ok {
		return msg
	}
	return MessageGeneric
}
