package normalize

import (
	"strconv"
	"time"

	"f0oster/adreport/activedirectory"

	"github.com/bwmarrin/go-objectsid"
)

// Config fixes the derived-field predicates for one run. ReferenceTime is
// captured once so that normalizing the same record twice yields identical
// output regardless of wall-clock time.
type Config struct {
	// StaleThreshold is the inactivity window after which an account counts
	// as stale. An absent last logon is always stale.
	StaleThreshold time.Duration
	ReferenceTime  time.Time
}

// Normalizer maps raw DirectoryRecords into the canonical report schema.
// Normalization is pure: no I/O, no mutation of the input record.
type Normalizer struct {
	cfg Config
}

func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Account normalizes a user record. Missing optional attributes default to
// neutral values (empty string, absent timestamp), never to an error.
func (n *Normalizer) Account(record *activedirectory.DirectoryRecord) *NormalizedAccount {
	uac := parseUAC(record)
	lastLogon := parseRecordFiletime(record, "lastLogonTimestamp")

	account := &NormalizedAccount{
		SAMAccountName:       firstOrEmpty(record, "sAMAccountName"),
		DN:                   record.DN,
		Description:          firstOrEmpty(record, "description"),
		Enabled:              !uac.Disabled(),
		Locked:               accountLocked(record, uac),
		PasswordNeverExpires: uac.PasswordNeverExpires(),
		PasswordNotRequired:  uac.PasswordNotRequired(),
		PasswordLastSet:      parseRecordFiletime(record, "pwdLastSet"),
		LastLogon:            lastLogon,
		WhenCreated:          parseGeneralizedTime(firstOrEmpty(record, "whenCreated")),
		MemberOf:             record.SortedValues("memberOf"),
		ServicePrincipals:    record.SortedValues("servicePrincipalName"),
		SID:                  decodeSID(record),
		AdminCount:           firstOrEmpty(record, "adminCount") == "1",
	}
	account.Stale = n.stale(lastLogon)
	return account
}

// Group normalizes a group record, keeping member references structured for
// the privileged-membership resolver.
func (n *Normalizer) Group(record *activedirectory.DirectoryRecord) *NormalizedGroup {
	return &NormalizedGroup{
		SAMAccountName: firstOrEmpty(record, "sAMAccountName"),
		DN:             record.DN,
		Description:    firstOrEmpty(record, "description"),
		Members:        record.SortedValues("member"),
		MemberOf:       record.SortedValues("memberOf"),
		SID:            decodeSID(record),
		WhenCreated:    parseGeneralizedTime(firstOrEmpty(record, "whenCreated")),
	}
}

func (n *Normalizer) Computer(record *activedirectory.DirectoryRecord) *NormalizedComputer {
	uac := parseUAC(record)
	lastLogon := parseRecordFiletime(record, "lastLogonTimestamp")

	return &NormalizedComputer{
		SAMAccountName:  firstOrEmpty(record, "sAMAccountName"),
		DN:              record.DN,
		Description:     firstOrEmpty(record, "description"),
		Enabled:         !uac.Disabled(),
		OperatingSystem: firstOrEmpty(record, "operatingSystem"),
		LastLogon:       lastLogon,
		WhenCreated:     parseGeneralizedTime(firstOrEmpty(record, "whenCreated")),
		SID:             decodeSID(record),
		Stale:           n.stale(lastLogon),
	}
}

// stale reports whether a last-logon timestamp is absent or older than the
// configured threshold at the run's reference time.
func (n *Normalizer) stale(lastLogon *time.Time) bool {
	if lastLogon == nil {
		return true
	}
	return n.cfg.ReferenceTime.Sub(*lastLogon) > n.cfg.StaleThreshold
}

func parseUAC(record *activedirectory.DirectoryRecord) UAC {
	raw, ok := record.Get("userAccountControl")
	if !ok {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return UAC(v)
}

// accountLocked is true when the lockout UAC bit is set or lockoutTime holds
// a live timestamp. A lockoutTime of 0 means the lock was cleared.
func accountLocked(record *activedirectory.DirectoryRecord, uac UAC) bool {
	if uac.LockedOut() {
		return true
	}
	lockout, ok := record.Get("lockoutTime")
	return ok && lockout != "" && lockout != "0"
}

func decodeSID(record *activedirectory.DirectoryRecord) string {
	raw, ok := record.Get("objectSid")
	if !ok || raw == "" {
		return ""
	}
	// objectSid arrives as a binary blob; already-decoded datasets keep the
	// S-1-5 string form.
	if raw[0] == 'S' {
		return raw
	}
	return sidString([]byte(raw))
}

// sidString renders a binary SID. objectsid.Decode panics on truncated input,
// which here just means no SID column for that record.
func sidString(raw []byte) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return objectsid.Decode(raw).String()
}

func parseRecordFiletime(record *activedirectory.DirectoryRecord, name string) *time.Time {
	value, ok := record.Get(name)
	if !ok {
		return nil
	}
	return parseFiletime(value)
}

func firstOrEmpty(record *activedirectory.DirectoryRecord, name string) string {
	value, _ := record.Get(name)
	return value
}
