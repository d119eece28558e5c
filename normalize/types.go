package normalize

import "time"

// NormalizedAccount is the canonical tabular form of one user object. The
// Privileged fields start zeroed and are only ever written by the privileged
// membership resolver; everything else is fixed at normalization time.
type NormalizedAccount struct {
	SAMAccountName       string
	DN                   string
	Description          string
	Enabled              bool
	Locked               bool
	PasswordNeverExpires bool
	PasswordNotRequired  bool
	PasswordLastSet      *time.Time
	LastLogon            *time.Time
	WhenCreated          *time.Time
	MemberOf             []string
	ServicePrincipals    []string
	SID                  string
	AdminCount           bool
	Stale                bool

	Privileged    bool
	PrivilegedVia []string
}

// NormalizedGroup keeps membership structured for the resolver while display
// fields are joined downstream.
type NormalizedGroup struct {
	SAMAccountName string
	DN             string
	Description    string
	Members        []string
	MemberOf       []string
	SID            string
	WhenCreated    *time.Time
}

type NormalizedComputer struct {
	SAMAccountName  string
	DN              string
	Description     string
	Enabled         bool
	OperatingSystem string
	LastLogon       *time.Time
	WhenCreated     *time.Time
	SID             string
	Stale           bool
}
