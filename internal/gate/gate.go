// Package gate implements the role-gated account access flow shared by
// consumers, health providers, HMOs and admins: provider sign-in, role
// profile lookup, approval check, then either a landing route or a sign-out
// with a message.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
	"health-insurance-web/internal/store"
)

// IdentityProvider is the hosted identity service.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Principal, error)
	VerifyFederatedToken(ctx context.Context, idToken string) (*identity.Principal, error)
	SignOut(ctx context.Context, uid string) error
	CreateAccount(ctx context.Context, email, password, displayName string) (*identity.Principal, error)
	SendEmailVerification(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email, continueURL string) error
	VerifyResetCode(ctx context.Context, code string) (string, error)
	ConfirmReset(ctx context.Context, code, newPassword string) error
}

// ProfileStore holds role profiles keyed by uid. Fetch returns
// store.ErrNotFound when the document does not exist and Create returns
// store.ErrAlreadyExists when it does.
type ProfileStore interface {
	Fetch(ctx context.Context, collection, uid string) (*models.RoleRecord, error)
	Create(ctx context.Context, collection, uid string, doc interface{}) error
}

type Options struct {
	AdminLandingSuffix string
	ResetContinueURL   string
	// NewDisplayID overrides the display id generator.
	NewDisplayID func() string
}

type Service struct {
	idp      IdentityProvider
	profiles ProfileStore
	sessions *Sessions
	roles    map[string]Role

	resetContinueURL string
	newDisplayID     func() string
}

func NewService(idp IdentityProvider, profiles ProfileStore, sessions *Sessions, opts Options) *Service {
	s := &Service{
		idp:              idp,
		profiles:         profiles,
		sessions:         sessions,
		roles:            DefaultRoles(opts.AdminLandingSuffix),
		resetContinueURL: opts.ResetContinueURL,
		newDisplayID:     opts.NewDisplayID,
	}
	if s.newDisplayID == nil {
		s.newDisplayID = NewDisplayID
	}
	if s.sessions == nil {
		s.sessions = NewSessions()
	}
	return s
}

// Role looks up a role configuration by name.
func (s *Service) Role(name string) (Role, error) {
	r, ok := s.roles[name]
	if !ok {
		return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	return r, nil
}

// Login runs an email/password attempt for role.
func (s *Service) Login(ctx context.Context, roleName, email, password string) (*Outcome, error) {
	role, err := s.Role(roleName)
	if err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, required("email")
	}
	if password == "" {
		return nil, required("password")
	}

	p, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		return providerFailure(role, TitleSignInFailed, err), nil
	}

	rec, err := s.profiles.Fetch(ctx, role.Collection, p.UID)
	if errors.Is(err, store.ErrNotFound) {
		return s.deny(ctx, role, p, ReasonNotRole), nil
	}
	if err != nil {
		s.signOut(ctx, role, p, ReasonNone)
		return nil, fmt.Errorf("fetch %s profile: %w", role.Name, err)
	}

	return s.check(ctx, role, p, rec), nil
}

// FederatedLogin runs an attempt with an ID token from the browser's popup.
// popupError, when set, is the code the popup failed with.
func (s *Service) FederatedLogin(ctx context.Context, roleName, idToken, popupError string) (*Outcome, error) {
	role, err := s.Role(roleName)
	if err != nil {
		return nil, err
	}

	if popupError != "" {
		return providerFailure(role, TitleSignInFailed, identity.NewError(popupError)), nil
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, required("id_token")
	}

	p, err := s.idp.VerifyFederatedToken(ctx, idToken)
	if err != nil {
		return providerFailure(role, TitleSignInFailed, err), nil
	}

	rec, err := s.profiles.Fetch(ctx, role.Collection, p.UID)
	if errors.Is(err, store.ErrNotFound) {
		if !role.SelfRegister {
			return s.deny(ctx, role, p, ReasonNotRole), nil
		}
		return s.createOnFirstSignIn(ctx, role, p)
	}
	if err != nil {
		s.signOut(ctx, role, p, ReasonNone)
		return nil, fmt.Errorf("fetch %s profile: %w", role.Name, err)
	}

	return s.check(ctx, role, p, rec), nil
}

func (s *Service) createOnFirstSignIn(ctx context.Context, role Role, p *identity.Principal) (*Outcome, error) {
	doc := role.newProfile(role, s.newDisplayID(), p)
	err := s.profiles.Create(ctx, role.Collection, p.UID, doc)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		// A concurrent first sign-in won; its profile stands and was announced.
		log.Info().Str("role", role.Name).Str("uid", p.UID).Msg("profile created by concurrent sign-in")
	case err != nil:
		s.signOut(ctx, role, p, ReasonNone)
		return nil, fmt.Errorf("create %s profile: %w", role.Name, err)
	default:
		s.publish(models.EventProfileCreated, role, p, ReasonNone)
	}

	s.signOut(ctx, role, p, ReasonProfileCreated)
	return &Outcome{
		Status:  StatusCreated,
		Reason:  ReasonProfileCreated,
		Role:    role.Name,
		Title:   role.CreatedTitle,
		Message: role.CreatedMessage,
	}, nil
}

// check applies the approval predicate to a found profile.
func (s *Service) check(ctx context.Context, role Role, p *identity.Principal, rec *models.RoleRecord) *Outcome {
	if !role.Approved(rec) {
		return s.deny(ctx, role, p, role.DeniedReason)
	}
	return s.route(role, p)
}

func (s *Service) route(role Role, p *identity.Principal) *Outcome {
	s.publish(models.EventSignedIn, role, p, ReasonNone)
	log.Info().Str("role", role.Name).Str("uid", p.UID).Msg("sign-in routed")

	return &Outcome{
		Status:   StatusRouted,
		Role:     role.Name,
		Redirect: role.LandingPath,
		UID:      p.UID,
		Email:    p.Email,
	}
}

func (s *Service) deny(ctx context.Context, role Role, p *identity.Principal, reason Reason) *Outcome {
	s.signOut(ctx, role, p, reason)

	title, msg := role.deniedText(reason)
	return &Outcome{
		Status:  StatusDenied,
		Reason:  reason,
		Role:    role.Name,
		Title:   title,
		Message: msg,
	}
}

// signOut ends the provider session. A failed revocation is logged; the
// attempt is still reported as not signed in.
func (s *Service) signOut(ctx context.Context, role Role, p *identity.Principal, reason Reason) {
	if err := s.idp.SignOut(ctx, p.UID); err != nil {
		log.Warn().Err(err).Str("role", role.Name).Str("uid", p.UID).Msg("sign-out failed")
	}
	s.publish(models.EventSignedOut, role, p, reason)
}

func (s *Service) publish(kind string, role Role, p *identity.Principal, reason Reason) {
	s.sessions.Publish(Event{
		Kind:   kind,
		Role:   role.Name,
		UID:    p.UID,
		Email:  p.Email,
		Reason: reason,
	})
}

// SignOut ends the session of a signed-in principal, e.g. on logout.
func (s *Service) SignOut(ctx context.Context, roleName, uid string) error {
	role, err := s.Role(roleName)
	if err != nil {
		return err
	}
	if err := s.idp.SignOut(ctx, uid); err != nil {
		return fmt.Errorf("sign out %s: %w", uid, err)
	}
	s.publish(models.EventSignedOut, role, &identity.Principal{UID: uid}, ReasonNone)
	return nil
}

func providerFailure(role Role, title string, err error) *Outcome {
	code := identity.CodeOf(err)
	log.Debug().Err(err).Str("role", role.Name).Str("code", code).Msg("identity provider rejected attempt")

	return &Outcome{
		Status:  StatusProviderError,
		Reason:  ReasonProvider,
		Code:    code,
		Role:    role.Name,
		Title:   title,
		Message: FriendlyMessage(code),
	}
}
