package gate

import (
	"strings"

	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/models"
)

// Role is one configuration of the login gate.
type Role struct {
	Name        string
	Label       string // as in "registered as <Label>"
	Title       string
	Collection  string
	LandingPath string

	// DefaultApproved is the approval state written on profiles this role creates.
	DefaultApproved bool
	// SelfRegister allows signup and lazy profile creation on first federated sign-in.
	SelfRegister bool

	// Approved decides whether a found profile may go past the gate. When it
	// refuses, the attempt is denied with DeniedReason.
	Approved     func(rec *models.RoleRecord) bool
	DeniedReason Reason

	RestrictedTitle   string
	RestrictedMessage string
	CreatedTitle      string
	CreatedMessage    string

	newProfile func(r Role, displayID string, p *identity.Principal) interface{}
}

func accApproved(rec *models.RoleRecord) bool { return rec.AccApproved }

func adminActive(rec *models.RoleRecord) bool { return rec.Status == models.AdminStatusActive }

// DefaultRoles builds the four marketplace roles. adminSuffix is appended to
// the admin landing path.
func DefaultRoles(adminSuffix string) map[string]Role {
	providerPending := "Your account is awaiting approval. You will be able to sign in once it has been reviewed."

	return map[string]Role{
		models.RoleUser: {
			Name:              models.RoleUser,
			Title:             "User",
			Label:             "a user",
			Collection:        "users",
			LandingPath:       "/user",
			DefaultApproved:   true,
			SelfRegister:      true,
			Approved:          accApproved,
			DeniedReason:      ReasonNotApproved,
			RestrictedTitle:   "Account Restricted",
			RestrictedMessage: "Your account has been restricted. Please contact support.",
			CreatedTitle:      "Account Created",
			CreatedMessage:    "Your account has been created. Please sign in again to continue.",
			newProfile:        newUserProfile,
		},
		models.RoleHP: {
			Name:              models.RoleHP,
			Title:             "Health Provider",
			Label:             "a health provider",
			Collection:        "hps",
			LandingPath:       "/hp",
			SelfRegister:      true,
			Approved:          accApproved,
			DeniedReason:      ReasonNotApproved,
			RestrictedTitle:   "Awaiting Approval",
			RestrictedMessage: providerPending,
			CreatedTitle:      "Awaiting Approval",
			CreatedMessage:    "Your health provider account has been created and is awaiting approval.",
			newProfile:        newProviderProfile,
		},
		models.RoleHMO: {
			Name:              models.RoleHMO,
			Title:             "HMO",
			Label:             "an HMO",
			Collection:        "hmos",
			LandingPath:       "/hmo",
			SelfRegister:      true,
			Approved:          accApproved,
			DeniedReason:      ReasonNotApproved,
			RestrictedTitle:   "Awaiting Approval",
			RestrictedMessage: providerPending,
			CreatedTitle:      "Awaiting Approval",
			CreatedMessage:    "Your HMO account has been created and is awaiting approval.",
			newProfile:        newProviderProfile,
		},
		models.RoleAdmin: {
			Name:              models.RoleAdmin,
			Title:             "Admin",
			Label:             "an admin",
			Collection:        "admins",
			LandingPath:       "/admin" + adminSuffix,
			Approved:          adminActive,
			DeniedReason:      ReasonInactive,
			RestrictedTitle:   "Account Inactive",
			RestrictedMessage: "Your admin account is not active. Please contact the platform owner.",
		},
	}
}

func (r Role) deniedText(reason Reason) (string, string) {
	if reason == ReasonNotRole {
		return "Access Denied", "This account is not registered as " + r.Label + "."
	}
	return r.RestrictedTitle, r.RestrictedMessage
}

func newUserProfile(r Role, displayID string, p *identity.Principal) interface{} {
	first, last := splitName(p.DisplayName)
	return &models.UserProfile{
		DisplayID:   displayID,
		FirstName:   first,
		LastName:    last,
		Email:       p.Email,
		Role:        r.Name,
		AccApproved: r.DefaultApproved,
	}
}

func newProviderProfile(r Role, displayID string, p *identity.Principal) interface{} {
	return &models.ProviderProfile{
		DisplayID:   displayID,
		Name:        p.DisplayName,
		Email:       p.Email,
		Role:        r.Name,
		AccApproved: r.DefaultApproved,
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
