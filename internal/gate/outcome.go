package gate

// Status is the terminal state of one login or signup attempt.
type Status int

const (
	StatusRouted Status = iota + 1
	StatusDenied
	StatusCreated
	StatusProviderError
)

func (s Status) String() string {
	switch s {
	case StatusRouted:
		return "routed"
	case StatusDenied:
		return "denied"
	case StatusCreated:
		return "created"
	case StatusProviderError:
		return "provider_error"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Reason says why an attempt did not end in Routed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotRole
	ReasonNotApproved
	ReasonInactive
	ReasonProfileCreated
	ReasonProvider
)

func (r Reason) String() string {
	switch r {
	case ReasonNotRole:
		return "not_role"
	case ReasonNotApproved:
		return "not_approved"
	case ReasonInactive:
		return "inactive"
	case ReasonProfileCreated:
		return "profile_created"
	case ReasonProvider:
		return "provider"
	}
	return ""
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Outcome is what the client shows after an attempt: a dialog, a redirect, or both.
type Outcome struct {
	Status   Status `json:"status"`
	Reason   Reason `json:"reason,omitempty"`
	Code     string `json:"code,omitempty"`
	Role     string `json:"role"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`

	// UID and Email are set on Routed outcomes so the caller can open a session.
	UID   string `json:"-"`
	Email string `json:"-"`
}

func (o *Outcome) Routed() bool { return o.Status == StatusRouted }
