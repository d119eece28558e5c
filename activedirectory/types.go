package activedirectory

import (
	"sort"

	"github.com/go-ldap/ldap/v3"
)

// ObjectClass is the structural class tag carried by every DirectoryRecord.
type ObjectClass string

const (
	ClassContainer          ObjectClass = "container"
	ClassOrganizationalUnit ObjectClass = "organizationalUnit"
	ClassDomain             ObjectClass = "domainDNS"
	ClassUser               ObjectClass = "user"
	ClassGroup              ObjectClass = "group"
	ClassComputer           ObjectClass = "computer"
	ClassSite               ObjectClass = "site"
	ClassTrust              ObjectClass = "trustedDomain"
	ClassUnknown            ObjectClass = "unknown"
)

// DirectoryRecord is the canonical in-memory form of one directory object.
// It is immutable once fetched; downstream stages read it but never write it.
type DirectoryRecord struct {
	DN         string              `json:"dn"`
	Class      ObjectClass         `json:"object_class"`
	Attributes map[string][]string `json:"attributes"`
}

// RecordFromEntry converts a raw LDAP entry into a DirectoryRecord. The
// structural class is the most specific (last) objectClass value, matching
// how the directory orders the class chain.
func RecordFromEntry(entry *ldap.Entry) *DirectoryRecord {
	attrs := make(map[string][]string, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		values := make([]string, len(attr.Values))
		copy(values, attr.Values)
		attrs[attr.Name] = values
	}

	return &DirectoryRecord{
		DN:         entry.DN,
		Class:      classifyObjectClass(entry.GetAttributeValues("objectClass")),
		Attributes: attrs,
	}
}

func classifyObjectClass(values []string) ObjectClass {
	if len(values) == 0 {
		return ClassUnknown
	}
	// computers carry "user" earlier in the chain, so the most specific
	// class has to win
	switch ObjectClass(values[len(values)-1]) {
	case ClassContainer, ClassOrganizationalUnit, ClassDomain, ClassUser,
		ClassGroup, ClassComputer, ClassSite, ClassTrust:
		return ObjectClass(values[len(values)-1])
	}
	return ClassUnknown
}

// Get returns the first value of the named attribute, with an explicit
// presence result. Multi-valued attributes should use Values instead.
func (r *DirectoryRecord) Get(name string) (string, bool) {
	values, ok := r.Attributes[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Values returns all values of the named attribute, or nil when absent.
func (r *DirectoryRecord) Values(name string) []string {
	return r.Attributes[name]
}

// SortedValues returns the attribute's values in a deterministic order,
// leaving the record's own slice untouched.
func (r *DirectoryRecord) SortedValues(name string) []string {
	values := r.Attributes[name]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
