package activedirectory

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// ErrDirectoryUnavailable indicates that a query scope could not be served at
// all (connection refused, server down, bind rejected). The affected scope's
// pipeline aborts; other scopes keep running.
var ErrDirectoryUnavailable = errors.New("directory unavailable")

// wrapQueryError classifies an LDAP failure. Availability-class result codes
// map onto ErrDirectoryUnavailable so callers can test with errors.Is.
func wrapQueryError(op string, err error) error {
	if err == nil {
		return nil
	}

	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) {
		switch ldapErr.ResultCode {
		case ldap.LDAPResultUnavailable, ldap.LDAPResultServerDown, ldap.LDAPResultBusy:
			return fmt.Errorf("%s: %w: %v", op, ErrDirectoryUnavailable, err)
		}
	}
	if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		return fmt.Errorf("%s: %w: %v", op, ErrDirectoryUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
