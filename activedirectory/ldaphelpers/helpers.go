package ldaphelpers

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Filter is a composable LDAP search filter fragment.
type Filter interface {
	String() string
}

type rawFilter string

func (f rawFilter) String() string {
	return string(f)
}

// RawFilter wraps an already-formed filter string.
func RawFilter(s string) Filter {
	return rawFilter(s)
}

// Logical operators

type andFilter struct {
	parts []Filter
}

func And(filters ...Filter) Filter {
	return andFilter{parts: filters}
}

func (f andFilter) String() string {
	var parts []string
	for _, p := range f.parts {
		parts = append(parts, p.String())
	}
	return "(&" + strings.Join(parts, "") + ")"
}

type orFilter struct {
	parts []Filter
}

func Or(filters ...Filter) Filter {
	return orFilter{parts: filters}
}

func (f orFilter) String() string {
	var parts []string
	for _, p := range f.parts {
		parts = append(parts, p.String())
	}
	return "(|" + strings.Join(parts, "") + ")"
}

type notFilter struct {
	part Filter
}

func Not(f Filter) Filter {
	return notFilter{part: f}
}

func (f notFilter) String() string {
	return "(!" + f.part.String() + ")"
}

// Comparisons

func Eq(attr, value string) Filter {
	return rawFilter("(" + attr + "=" + ldap.EscapeFilter(value) + ")")
}

func Present(attr string) Filter {
	return rawFilter("(" + attr + "=*)")
}

// BitAnd matches when the named bitmask attribute has all given bits set,
// using the LDAP_MATCHING_RULE_BIT_AND extensible match.
func BitAnd(attr string, mask int64) Filter {
	return rawFilter(fmt.Sprintf("(%s:1.2.840.113556.1.4.803:=%d)", attr, mask))
}
