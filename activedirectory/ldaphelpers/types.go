package ldaphelpers

// Well-known filters for the object populations the reports cover.
const (
	AllObjects         = "(objectClass=*)"
	AllGroupObjects    = "(objectClass=group)"
	AllUserObjects     = "(&(objectCategory=person)(objectClass=user))"
	AllComputerObjects = "(objectClass=computer)"

	TopologyObjects = "(|(objectClass=domainDNS)(objectClass=organizationalUnit)(objectClass=container))"
	SiteObjects     = "(objectClass=site)"
	TrustObjects    = "(objectClass=trustedDomain)"
)

// Attribute selections per query scope. Fetching only what the normalizer
// reads keeps paged responses small on large domains.
var (
	AccountAttributes = []string{
		"objectClass", "sAMAccountName", "distinguishedName", "description",
		"userAccountControl", "lockoutTime", "pwdLastSet", "lastLogonTimestamp",
		"memberOf", "member", "whenCreated", "operatingSystem", "objectSid",
		"adminCount", "servicePrincipalName",
	}

	TopologyAttributes = []string{
		"objectClass", "name", "distinguishedName", "description", "whenCreated",
	}

	TrustAttributes = []string{
		"objectClass", "name", "distinguishedName", "trustPartner",
		"trustDirection", "trustType", "trustAttributes", "whenCreated",
	}
)
