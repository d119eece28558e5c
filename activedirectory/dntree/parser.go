package dntree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier classifies distinguished names that cannot be split
// into components. Records carrying one are skipped and reported, never fatal.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// MalformedIdentifierError names the offending DN and why it failed to parse.
type MalformedIdentifierError struct {
	DN     string
	Reason string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q: %s", e.DN, e.Reason)
}

func (e *MalformedIdentifierError) Unwrap() error {
	return ErrMalformedIdentifier
}

// ParsedDN is a distinguished name split into its container chain.
type ParsedDN struct {
	// DomainRoot is the folded domain component sequence, dot-joined,
	// e.g. "corp.example.com" for ...,DC=corp,DC=example,DC=com.
	DomainRoot string
	// Segments holds the non-domain components ordered outermost first,
	// e.g. ["OU=Corp", "OU=Users", "CN=J. Doe"].
	Segments []string
}

// SplitDN splits a distinguished name on unescaped commas. A backslash quotes
// the following character, so values may contain literal commas ("CN=Doe\, J").
// A trailing backslash leaves the quoting unbalanced and fails the whole DN.
func SplitDN(dn string) ([]string, error) {
	if strings.TrimSpace(dn) == "" {
		return nil, &MalformedIdentifierError{DN: dn, Reason: "empty distinguished name"}
	}

	var components []string
	var current strings.Builder
	escaped := false

	for _, r := range dn {
		switch {
		case escaped:
			current.WriteRune('\\')
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			components = append(components, strings.TrimLeft(current.String(), " "))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		return nil, &MalformedIdentifierError{DN: dn, Reason: "unbalanced escape sequence"}
	}
	components = append(components, strings.TrimLeft(current.String(), " "))

	for _, c := range components {
		if c == "" || !strings.Contains(c, "=") {
			return nil, &MalformedIdentifierError{DN: dn, Reason: fmt.Sprintf("component %q is not attribute=value", c)}
		}
	}

	return components, nil
}

// ParseDN splits a DN and reorders it outer-to-inner: the reversed run of
// trailing DC components folds into DomainRoot, everything else becomes the
// segment chain from closest-to-root down to the object's own RDN.
func ParseDN(dn string) (*ParsedDN, error) {
	components, err := SplitDN(dn)
	if err != nil {
		return nil, err
	}

	// DC components sit at the tail of a DN; peel them off first.
	split := len(components)
	for split > 0 && hasType(components[split-1], "DC") {
		split--
	}

	domainParts := make([]string, 0, len(components)-split)
	for _, c := range components[split:] {
		domainParts = append(domainParts, componentValue(c))
	}

	segments := make([]string, 0, split)
	for i := split - 1; i >= 0; i-- {
		segments = append(segments, components[i])
	}

	return &ParsedDN{
		DomainRoot: strings.Join(domainParts, "."),
		Segments:   segments,
	}, nil
}

func hasType(component, attrType string) bool {
	idx := strings.Index(component, "=")
	if idx < 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(component[:idx]), attrType)
}

// componentValue returns the value half of "attr=value" with escapes removed.
func componentValue(component string) string {
	idx := strings.Index(component, "=")
	if idx < 0 {
		return component
	}
	value := component[idx+1:]
	if !strings.Contains(value, "\\") {
		return value
	}

	var out strings.Builder
	escaped := false
	for _, r := range value {
		switch {
		case escaped:
			out.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
