package dntree

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitDN(t *testing.T) {
	tests := []struct {
		name string
		dn   string
		want []string
	}{
		{
			name: "plain components",
			dn:   "CN=J. Doe,OU=Users,DC=corp,DC=example,DC=com",
			want: []string{"CN=J. Doe", "OU=Users", "DC=corp", "DC=example", "DC=com"},
		},
		{
			name: "escaped comma stays inside the value",
			dn:   `CN=Doe\, Jane,OU=Users,DC=corp,DC=example,DC=com`,
			want: []string{`CN=Doe\, Jane`, "OU=Users", "DC=corp", "DC=example", "DC=com"},
		},
		{
			name: "space after separator is trimmed",
			dn:   "CN=Svc, OU=Service Accounts, DC=corp, DC=example, DC=com",
			want: []string{"CN=Svc", "OU=Service Accounts", "DC=corp", "DC=example", "DC=com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitDN(tt.dn)
			if err != nil {
				t.Fatalf("SplitDN(%q) returned error: %v", tt.dn, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitDN(%q) = %v, want %v", tt.dn, got, tt.want)
			}
		})
	}
}

func TestSplitDNMalformed(t *testing.T) {
	tests := []struct {
		name string
		dn   string
	}{
		{name: "empty", dn: ""},
		{name: "whitespace only", dn: "   "},
		{name: "trailing backslash", dn: `CN=Broken\`},
		{name: "component without equals", dn: "CN=Ok,JustAValue,DC=example,DC=com"},
		{name: "empty component", dn: "CN=Ok,,DC=example,DC=com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitDN(tt.dn)
			if err == nil {
				t.Fatalf("SplitDN(%q) succeeded, want error", tt.dn)
			}
			if !errors.Is(err, ErrMalformedIdentifier) {
				t.Errorf("SplitDN(%q) error = %v, want ErrMalformedIdentifier", tt.dn, err)
			}
			var malformed *MalformedIdentifierError
			if !errors.As(err, &malformed) {
				t.Fatalf("SplitDN(%q) error type = %T, want *MalformedIdentifierError", tt.dn, err)
			}
			if malformed.DN != tt.dn {
				t.Errorf("error DN = %q, want %q", malformed.DN, tt.dn)
			}
		})
	}
}

func TestParseDN(t *testing.T) {
	tests := []struct {
		name         string
		dn           string
		wantRoot     string
		wantSegments []string
	}{
		{
			name:         "segments reorder outermost first",
			dn:           "CN=J. Doe,OU=Users,OU=Corp,DC=corp,DC=example,DC=com",
			wantRoot:     "corp.example.com",
			wantSegments: []string{"OU=Corp", "OU=Users", "CN=J. Doe"},
		},
		{
			name:         "no domain components",
			dn:           "CN=Schema,CN=Configuration",
			wantRoot:     "",
			wantSegments: []string{"CN=Configuration", "CN=Schema"},
		},
		{
			name:         "domain root only",
			dn:           "DC=corp,DC=example,DC=com",
			wantRoot:     "corp.example.com",
			wantSegments: []string{},
		},
		{
			name:         "lower-cased dc attribute",
			dn:           "CN=x,dc=example,dc=com",
			wantRoot:     "example.com",
			wantSegments: []string{"CN=x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDN(tt.dn)
			if err != nil {
				t.Fatalf("ParseDN(%q) returned error: %v", tt.dn, err)
			}
			if got.DomainRoot != tt.wantRoot {
				t.Errorf("DomainRoot = %q, want %q", got.DomainRoot, tt.wantRoot)
			}
			if !reflect.DeepEqual(got.Segments, tt.wantSegments) {
				t.Errorf("Segments = %v, want %v", got.Segments, tt.wantSegments)
			}
		})
	}
}

func TestComponentValueUnescapes(t *testing.T) {
	got := componentValue(`CN=Doe\, Jane`)
	if want := "Doe, Jane"; got != want {
		t.Errorf("componentValue = %q, want %q", got, want)
	}
}
