package gate

import (
	"context"
	"strings"
)

// ResetMode is the mode query parameter the provider puts on reset links.
const ResetMode = "resetPassword"

// RequestReset asks the provider to email a reset link for email.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return required("email")
	}
	return s.idp.SendPasswordReset(ctx, email, s.resetContinueURL)
}

// VerifyReset checks the link parameters before the new password form is
// shown and returns the account email.
func (s *Service) VerifyReset(ctx context.Context, mode, code string) (string, error) {
	if err := checkResetMode(mode); err != nil {
		return "", err
	}
	if strings.TrimSpace(code) == "" {
		return "", required("oob_code")
	}
	return s.idp.VerifyResetCode(ctx, code)
}

// ConfirmReset sets the new password bound to code. A link of another mode
// and mismatched or empty passwords are rejected before the provider is called.
func (s *Service) ConfirmReset(ctx context.Context, mode, code, newPassword, confirmPassword string) error {
	if err := checkResetMode(mode); err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return required("oob_code")
	}
	if newPassword == "" {
		return required("new_password")
	}
	if newPassword != confirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match."}
	}
	return s.idp.ConfirmReset(ctx, code, newPassword)
}

func checkResetMode(mode string) error {
	if mode != ResetMode {
		return &ValidationError{Field: "mode", Message: "Invalid password reset link."}
	}
	return nil
}
