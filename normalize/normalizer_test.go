package normalize

import (
	"reflect"
	"strconv"
	"testing"
	"time"

	"f0oster/adreport/activedirectory"
)

var testConfig = Config{
	StaleThreshold: 90 * 24 * time.Hour,
	ReferenceTime:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
}

func userRecord(attrs map[string][]string) *activedirectory.DirectoryRecord {
	return &activedirectory.DirectoryRecord{
		DN:         "CN=J. Doe,OU=Users,DC=corp,DC=example,DC=com",
		Class:      activedirectory.ClassUser,
		Attributes: attrs,
	}
}

func TestAccountDefaultsForMissingAttributes(t *testing.T) {
	n := NewNormalizer(testConfig)
	account := n.Account(userRecord(map[string][]string{}))

	if account.SAMAccountName != "" {
		t.Errorf("SAMAccountName = %q, want empty", account.SAMAccountName)
	}
	if !account.Enabled {
		t.Error("account without userAccountControl should default to enabled")
	}
	if account.Locked {
		t.Error("account without lockout attributes should not be locked")
	}
	if account.PasswordLastSet != nil || account.LastLogon != nil || account.WhenCreated != nil {
		t.Error("missing timestamps should normalize to absent, not zero time")
	}
	if !account.Stale {
		t.Error("account that never logged on should be stale")
	}
	if account.SID != "" {
		t.Errorf("SID = %q, want empty for missing objectSid", account.SID)
	}
}

func TestAccountDerivedFlags(t *testing.T) {
	n := NewNormalizer(testConfig)
	account := n.Account(userRecord(map[string][]string{
		"sAMAccountName":     {"jdoe"},
		"userAccountControl": {"66050"}, // disabled + don't expire password + normal
		"lockoutTime":        {"133500000000000000"},
		"adminCount":         {"1"},
		"memberOf":           {"CN=Zeta,DC=x", "CN=Alpha,DC=x"},
	}))

	if account.Enabled {
		t.Error("UAC disable bit should clear Enabled")
	}
	if !account.PasswordNeverExpires {
		t.Error("don't-expire bit should set PasswordNeverExpires")
	}
	if !account.Locked {
		t.Error("live lockoutTime should set Locked")
	}
	if !account.AdminCount {
		t.Error("adminCount=1 should set AdminCount")
	}
	if want := []string{"CN=Alpha,DC=x", "CN=Zeta,DC=x"}; !reflect.DeepEqual(account.MemberOf, want) {
		t.Errorf("MemberOf = %v, want sorted %v", account.MemberOf, want)
	}
}

func TestAccountLockoutCleared(t *testing.T) {
	n := NewNormalizer(testConfig)
	account := n.Account(userRecord(map[string][]string{
		"userAccountControl": {"512"},
		"lockoutTime":        {"0"},
	}))
	if account.Locked {
		t.Error("lockoutTime of 0 means the lock was cleared")
	}
}

func TestStalePredicate(t *testing.T) {
	recent := testConfig.ReferenceTime.Add(-24 * time.Hour)
	old := testConfig.ReferenceTime.Add(-120 * 24 * time.Hour)

	toFiletime := func(ts time.Time) string {
		return strconv.FormatInt(ts.UnixNano()/100+filetimeEpochOffset, 10)
	}

	n := NewNormalizer(testConfig)

	fresh := n.Account(userRecord(map[string][]string{
		"lastLogonTimestamp": {toFiletime(recent)},
	}))
	if fresh.Stale {
		t.Error("logon one day ago should not be stale at a 90 day threshold")
	}

	inactive := n.Account(userRecord(map[string][]string{
		"lastLogonTimestamp": {toFiletime(old)},
	}))
	if !inactive.Stale {
		t.Error("logon 120 days ago should be stale at a 90 day threshold")
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	record := userRecord(map[string][]string{
		"sAMAccountName":     {"jdoe"},
		"userAccountControl": {"512"},
		"lastLogonTimestamp": {"133500000000000000"},
		"whenCreated":        {"20240115083045.0Z"},
		"memberOf":           {"CN=B,DC=x", "CN=A,DC=x"},
	})

	n := NewNormalizer(testConfig)
	first := n.Account(record)
	second := n.Account(record)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalizing the same record twice diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDecodeSIDPassthroughAndTruncation(t *testing.T) {
	n := NewNormalizer(testConfig)

	already := n.Group(&activedirectory.DirectoryRecord{
		DN:         "CN=G,DC=x",
		Attributes: map[string][]string{"objectSid": {"S-1-5-21-1-2-3-512"}},
	})
	if already.SID != "S-1-5-21-1-2-3-512" {
		t.Errorf("string SID should pass through unchanged, got %q", already.SID)
	}

	truncated := n.Group(&activedirectory.DirectoryRecord{
		DN:         "CN=G,DC=x",
		Attributes: map[string][]string{"objectSid": {"\x01\x05"}},
	})
	if truncated.SID != "" {
		t.Errorf("truncated binary SID should normalize to empty, got %q", truncated.SID)
	}
}
