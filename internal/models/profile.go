package models

import "time"

// Role discriminators stored on every profile document.
const (
	RoleUser  = "user"
	RoleHP    = "hp"
	RoleHMO   = "hmo"
	RoleAdmin = "admin"
)

// AdminStatusActive is the only admin status allowed past the login gate.
const AdminStatusActive = "active"

// RoleRecord is the part of a profile document the login gate reads.
// Extra fields in the document are ignored when decoding.
type RoleRecord struct {
	Role        string `firestore:"role" json:"role"`
	DisplayID   string `firestore:"display_id" json:"display_id"`
	Email       string `firestore:"email" json:"email"`
	AccApproved bool   `firestore:"acc_approved" json:"acc_approved"`
	Status      string `firestore:"status" json:"status,omitempty"`
}

// UserProfile is a consumer document in users/{uid}.
type UserProfile struct {
	DisplayID           string    `firestore:"display_id" json:"display_id"`
	FirstName           string    `firestore:"first_name" json:"first_name"`
	LastName            string    `firestore:"last_name" json:"last_name"`
	Email               string    `firestore:"email" json:"email"`
	Phone               string    `firestore:"phone" json:"phone"`
	Gender              string    `firestore:"gender" json:"gender"`
	Address             string    `firestore:"address" json:"address"`
	DOB                 string    `firestore:"dob" json:"dob"` // YYYY-MM-DD
	MaritalStatus       string    `firestore:"marital_status" json:"marital_status"`
	EmploymentStatus    string    `firestore:"employment_status" json:"employment_status"`
	Dependants          int       `firestore:"dependants" json:"dependants"`
	HealthPreconditions string    `firestore:"health_preconditions" json:"health_preconditions"`
	Role                string    `firestore:"role" json:"role"`
	AccApproved         bool      `firestore:"acc_approved" json:"acc_approved"`
	DateReg             time.Time `firestore:"date_reg,serverTimestamp" json:"date_reg"`
}

// ProviderProfile is shared by health providers (hps/{uid}) and HMOs (hmos/{uid}).
type ProviderProfile struct {
	UID                string    `firestore:"-" json:"uid,omitempty"`
	DisplayID          string    `firestore:"display_id" json:"display_id"`
	Name               string    `firestore:"name" json:"name"`
	Email              string    `firestore:"email" json:"email"`
	Phone              string    `firestore:"phone" json:"phone"`
	Address            string    `firestore:"address" json:"address"`
	ContactPerson      string    `firestore:"contact_person" json:"contact_person"`
	ContactPersonPhone string    `firestore:"contact_person_phone" json:"contact_person_phone"`
	Role               string    `firestore:"role" json:"role"`
	AccApproved        bool      `firestore:"acc_approved" json:"acc_approved"`
	DateReg            time.Time `firestore:"date_reg,serverTimestamp" json:"date_reg"`
}

// Input for a consumer signing up with email and password
type UserSignupInput struct {
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required"`
	Phone               string `json:"phone" binding:"required"`
	Gender              string `json:"gender"`
	Address             string `json:"address"`
	DOB                 string `json:"dob"`
	MaritalStatus       string `json:"marital_status"`
	EmploymentStatus    string `json:"employment_status"`
	Dependants          int    `json:"dependants"`
	HealthPreconditions string `json:"health_preconditions"`
}

// Input for an HP or HMO signing up with email and password
type ProviderSignupInput struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required"`
	Phone              string `json:"phone" binding:"required"`
	Address            string `json:"address" binding:"required"`
	ContactPerson      string `json:"contact_person" binding:"required"`
	ContactPersonPhone string `json:"contact_person_phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FederatedInput carries the ID token from the browser's Google popup, or the
// error code the popup failed with.
type FederatedInput struct {
	IDToken    string `json:"id_token"`
	PopupError string `json:"popup_error"`
}
