package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Principal is a principal the provider has signed in.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	// IDToken is only set for password sign-ins and new accounts.
	IDToken string
}

// Client talks to Firebase Auth. Token verification, account creation and
// revocation go through the admin SDK; password sign-in and the out-of-band
// email flows go through the identity toolkit REST API with the web API key.
type Client struct {
	auth    *auth.Client
	toolkit *identitytoolkit.Service
}

func New(ctx context.Context, app *firebase.App, apiKey string) (*Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}

	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit service: %w", err)
	}

	return &Client{auth: authClient, toolkit: toolkit}, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	resp, err := c.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fromToolkit(err)
	}

	return &Principal{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		IDToken:     resp.IdToken,
	}, nil
}

// VerifyFederatedToken checks an ID token minted by the browser SDK after a
// federated popup sign-in. Tokens revoked by an earlier sign-out are refused.
func (c *Client) VerifyFederatedToken(ctx context.Context, idToken string) (*Principal, error) {
	token, err := c.auth.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fromVerify(err)
	}

	p := &Principal{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		p.DisplayName = name
	}
	return p, nil
}

// SignOut revokes every refresh token of uid so no client keeps a live session.
func (c *Client) SignOut(ctx context.Context, uid string) error {
	return fromAdmin(c.auth.RevokeRefreshTokens(ctx, uid))
}

// CreateAccount registers a new email/password account and signs it in, so the
// returned principal carries an ID token for the verification email.
func (c *Client) CreateAccount(ctx context.Context, email, password, displayName string) (*Principal, error) {
	_, err := c.toolkit.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fromToolkit(err)
	}

	return c.SignInWithPassword(ctx, email, password)
}

func (c *Client) SendEmailVerification(ctx context.Context, idToken string) error {
	_, err := c.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "VERIFY_EMAIL",
		IdToken:     idToken,
	}).Context(ctx).Do()
	return fromToolkit(err)
}

// SendPasswordReset asks the provider to email a reset link that continues to continueURL.
func (c *Client) SendPasswordReset(ctx context.Context, email, continueURL string) error {
	_, err := c.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
		ContinueUrl: continueURL,
	}).Context(ctx).Do()
	return fromToolkit(err)
}

// VerifyResetCode checks a reset code without consuming it and returns the account email.
func (c *Client) VerifyResetCode(ctx context.Context, code string) (string, error) {
	resp, err := c.toolkit.Relyingparty.ResetPassword(&identitytoolkit.IdentitytoolkitRelyingpartyResetPasswordRequest{
		OobCode: code,
	}).Context(ctx).Do()
	if err != nil {
		return "", fromToolkit(err)
	}
	return resp.Email, nil
}

func (c *Client) ConfirmReset(ctx context.Context, code, newPassword string) error {
	_, err := c.toolkit.Relyingparty.ResetPassword(&identitytoolkit.IdentitytoolkitRelyingpartyResetPasswordRequest{
		OobCode:     code,
		NewPassword: newPassword,
	}).Context(ctx).Do()
	return fromToolkit(err)
}
