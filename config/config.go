package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Connection holds the directory connection settings, loaded from a .env file.
type Connection struct {
	BaseDN   string
	DcFQDN   string
	Username string
	Password string
	PageSize uint32
}

// LoadConnection reads LDAP connection settings from the named env file.
func LoadConnection(configName string) (Connection, error) {
	if err := godotenv.Load(configName); err != nil {
		return Connection{}, fmt.Errorf("load env file %s: %w", configName, err)
	}

	pageSize, err := strconv.Atoi(os.Getenv("LDAP_PAGESIZE"))
	if err != nil {
		return Connection{}, fmt.Errorf("parse LDAP_PAGESIZE: %w", err)
	}

	return Connection{
		BaseDN:   os.Getenv("LDAP_BASEDN"),
		DcFQDN:   os.Getenv("LDAP_DCFQDN"),
		Username: os.Getenv("LDAP_USERNAME"),
		Password: os.Getenv("LDAP_PASSWORD"),
		PageSize: uint32(pageSize),
	}, nil
}

// Report fixes the report-generation parameters for one run. It is read-only
// after load and safely shared across concurrent pipelines.
type Report struct {
	// PrivilegedGroups seeds the membership closure. The default list covers
	// the built-in administrative groups; deployments extend it per policy.
	PrivilegedGroups []string `yaml:"privileged_groups"`
	// StaleAfterDays is the inactivity window for the stale-account flag.
	StaleAfterDays int `yaml:"stale_after_days"`
	// MaxMembershipDepth caps nested-group traversal. Zero disables the cap.
	MaxMembershipDepth int `yaml:"max_membership_depth"`
}

// DefaultReport returns the documented defaults: the well-known privileged
// built-ins, a 90 day staleness window and a depth cap of 10.
func DefaultReport() Report {
	return Report{
		PrivilegedGroups: []string{
			"Administrators",
			"Domain Admins",
			"Enterprise Admins",
			"Schema Admins",
			"Account Operators",
			"Backup Operators",
			"Server Operators",
			"Print Operators",
			"DnsAdmins",
		},
		StaleAfterDays:     90,
		MaxMembershipDepth: 10,
	}
}

// LoadReport overlays the defaults with settings from a YAML file. An empty
// path keeps the defaults.
func LoadReport(path string) (Report, error) {
	cfg := DefaultReport()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Report{}, fmt.Errorf("parse report config %s: %w", path, err)
	}

	if cfg.StaleAfterDays <= 0 {
		return Report{}, fmt.Errorf("report config %s: stale_after_days must be positive", path)
	}
	if len(cfg.PrivilegedGroups) == 0 {
		return Report{}, fmt.Errorf("report config %s: privileged_groups must not be empty", path)
	}
	return cfg, nil
}

// StaleThreshold converts the configured window to a duration.
func (r Report) StaleThreshold() time.Duration {
	return time.Duration(r.StaleAfterDays) * 24 * time.Hour
}
