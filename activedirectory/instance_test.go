package activedirectory

import "testing"

func TestDomainAccountFilter(t *testing.T) {
	got := domainAccountFilter()
	want := "(|" +
		"(&(&(objectCategory=person)(objectClass=user))(!(userAccountControl:1.2.840.113556.1.4.803:=2048)))" +
		"(&(objectClass=group)(sAMAccountName=*))" +
		"(objectClass=computer)" +
		")"
	if got != want {
		t.Errorf("domainAccountFilter() = %q, want %q", got, want)
	}
}
