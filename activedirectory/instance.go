package activedirectory

import (
	"context"
	"fmt"
	"log/slog"

	"f0oster/adreport/activedirectory/ldaphelpers"

	"github.com/go-ldap/ldap/v3"
)

// Instance is the handle for one directory forest or domain. It owns the LDAP
// connection and performs the read-only queries the report pipelines consume.
// Retry policy is deliberately absent here; callers decide whether a failed
// scope is re-attempted.
type Instance struct {
	BaseDN               string
	DomainControllerFQDN string
	PageSize             uint32
	ForestRootDN         string

	conn *ldap.Conn
}

func NewInstance(baseDN, domainControllerFQDN string, pageSize uint32) *Instance {
	return &Instance{
		BaseDN:               baseDN,
		DomainControllerFQDN: domainControllerFQDN,
		PageSize:             pageSize,
		ForestRootDN:         baseDN,
	}
}

// Connect dials the domain controller and binds with the supplied credentials.
func (ad *Instance) Connect(username, password string) error {
	bindURL := fmt.Sprintf("ldap://%s:389", ad.DomainControllerFQDN)

	conn, err := ldap.DialURL(bindURL)
	if err != nil {
		return wrapQueryError("connect", err)
	}

	// TODO: LDAPS, IWA/GSSAPI, etc
	if err := conn.Bind(username, password); err != nil {
		conn.Close()
		return wrapQueryError("bind", err)
	}

	res, err := conn.WhoAmI(nil)
	if err != nil {
		conn.Close()
		return wrapQueryError("whoami", err)
	}
	slog.Info("authenticated to directory", "url", bindURL, "authzid", res.AuthzID)

	ad.conn = conn
	return nil
}

func (ad *Instance) Close() {
	if ad.conn != nil {
		ad.conn.Close()
	}
}

// Search performs a paged subtree search and returns every matching entry as
// a DirectoryRecord. The context is checked between pages so a cancelled
// pipeline stops without waiting for the full result set.
func (ad *Instance) Search(ctx context.Context, baseDN, filter string, attributes []string) ([]*DirectoryRecord, error) {
	pageControl := ldap.NewControlPaging(ad.PageSize)
	request := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		attributes,
		[]ldap.Control{pageControl},
	)

	var records []*DirectoryRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := ad.conn.Search(request)
		if err != nil {
			return nil, wrapQueryError("search", err)
		}

		for _, entry := range result.Entries {
			records = append(records, RecordFromEntry(entry))
		}

		paging := ldap.FindControl(result.Controls, ldap.ControlTypePaging)
		if paging == nil {
			break
		}
		cookie := paging.(*ldap.ControlPaging).Cookie
		if len(cookie) == 0 {
			break
		}
		pageControl.SetCookie(cookie)
	}

	return records, nil
}

// FetchForestRecords gathers the topology objects for the forest report:
// domains, containers and OUs under the forest root, plus site and trust
// objects from the configuration naming context.
func (ad *Instance) FetchForestRecords(ctx context.Context) ([]*DirectoryRecord, error) {
	records, err := ad.Search(ctx, ad.ForestRootDN, ldaphelpers.TopologyObjects, ldaphelpers.TopologyAttributes)
	if err != nil {
		return nil, err
	}

	configDN := "CN=Configuration," + ad.ForestRootDN
	sites, err := ad.Search(ctx, "CN=Sites,"+configDN, ldaphelpers.SiteObjects, ldaphelpers.TopologyAttributes)
	if err != nil {
		return nil, err
	}
	records = append(records, sites...)

	trusts, err := ad.Search(ctx, ad.ForestRootDN, ldaphelpers.TrustObjects, ldaphelpers.TrustAttributes)
	if err != nil {
		return nil, err
	}
	return append(records, trusts...), nil
}

// interdomainTrustAccount is the userAccountControl bit set on the hidden
// trust accounts that back domain trusts. They satisfy the person/user
// category pair but are not reportable accounts.
const interdomainTrustAccount = 0x0800

// domainAccountFilter matches the users, groups and computers a domain
// report covers. Interdomain trust accounts are excluded, and groups
// without a sAMAccountName are skipped since nothing downstream can
// reference them.
func domainAccountFilter() string {
	return ldaphelpers.Or(
		ldaphelpers.And(
			ldaphelpers.RawFilter(ldaphelpers.AllUserObjects),
			ldaphelpers.Not(ldaphelpers.BitAnd("userAccountControl", interdomainTrustAccount)),
		),
		ldaphelpers.And(
			ldaphelpers.RawFilter(ldaphelpers.AllGroupObjects),
			ldaphelpers.Present("sAMAccountName"),
		),
		ldaphelpers.RawFilter(ldaphelpers.AllComputerObjects),
	).String()
}

// FetchDomainRecords gathers the account objects for one domain report:
// users, groups and computers below the domain naming context.
func (ad *Instance) FetchDomainRecords(ctx context.Context) ([]*DirectoryRecord, error) {
	return ad.Search(ctx, ad.BaseDN, domainAccountFilter(), ldaphelpers.AccountAttributes)
}
