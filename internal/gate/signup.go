package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
)

// SignupUser registers a consumer. Consumers are approved on creation and
// routed straight to their landing page.
func (s *Service) SignupUser(ctx context.Context, in models.UserSignupInput) (*Outcome, error) {
	role, err := s.Role(models.RoleUser)
	if err != nil {
		return nil, err
	}

	return s.register(ctx, role, in.Email, in.Password, strings.TrimSpace(in.FirstName+" "+in.LastName),
		func(displayID string, p *identity.Principal) interface{} {
			return &models.UserProfile{
				DisplayID:           displayID,
				FirstName:           in.FirstName,
				LastName:            in.LastName,
				Email:               p.Email,
				Phone:               in.Phone,
				Gender:              in.Gender,
				Address:             in.Address,
				DOB:                 in.DOB,
				MaritalStatus:       in.MaritalStatus,
				EmploymentStatus:    in.EmploymentStatus,
				Dependants:          in.Dependants,
				HealthPreconditions: in.HealthPreconditions,
				Role:                role.Name,
				AccApproved:         role.DefaultApproved,
			}
		})
}

// SignupProvider registers a health provider or HMO. The profile starts
// unapproved, so the new account is signed out and told to wait.
func (s *Service) SignupProvider(ctx context.Context, roleName string, in models.ProviderSignupInput) (*Outcome, error) {
	role, err := s.Role(roleName)
	if err != nil {
		return nil, err
	}
	if roleName == models.RoleUser {
		return nil, fmt.Errorf("%w: %q is not a provider role", ErrUnknownRole, roleName)
	}

	return s.register(ctx, role, in.Email, in.Password, in.Name,
		func(displayID string, p *identity.Principal) interface{} {
			return &models.ProviderProfile{
				DisplayID:          displayID,
				Name:               in.Name,
				Email:              p.Email,
				Phone:              in.Phone,
				Address:            in.Address,
				ContactPerson:      in.ContactPerson,
				ContactPersonPhone: in.ContactPersonPhone,
				Role:               role.Name,
				AccApproved:        role.DefaultApproved,
			}
		})
}

func (s *Service) register(
	ctx context.Context,
	role Role,
	email, password, displayName string,
	build func(displayID string, p *identity.Principal) interface{},
) (*Outcome, error) {
	if !role.SelfRegister {
		return nil, ErrSignupNotAvailable
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, required("email")
	}
	if password == "" {
		return nil, required("password")
	}

	// 1. Identity account
	p, err := s.idp.CreateAccount(ctx, email, password, displayName)
	if err != nil {
		return providerFailure(role, TitleSignUpFailed, err), nil
	}

	// 2. Role profile
	if err := s.profiles.Create(ctx, role.Collection, p.UID, build(s.newDisplayID(), p)); err != nil {
		s.signOut(ctx, role, p, ReasonNone)
		return nil, fmt.Errorf("create %s profile: %w", role.Name, err)
	}
	s.publish(models.EventProfileCreated, role, p, ReasonNone)

	// 3. Verification email
	if err := s.idp.SendEmailVerification(ctx, p.IDToken); err != nil {
		log.Warn().Err(err).Str("role", role.Name).Str("uid", p.UID).Msg("email verification not sent")
	}

	// 4. Route or park
	if role.DefaultApproved {
		return s.route(role, p), nil
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
