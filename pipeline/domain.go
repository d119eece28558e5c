package pipeline

import (
	"context"
	"fmt"
	"sort"

	"f0oster/adreport/activedirectory"
	"f0oster/adreport/config"
	"f0oster/adreport/normalize"
	"f0oster/adreport/privileged"
	"f0oster/adreport/report"
)

// DomainOptions tunes the per-domain report content.
type DomainOptions struct {
	// AllAccounts adds the full normalized account table next to the
	// privileged-only views.
	AllAccounts bool
}

// DomainResult carries the privileged-account inventory document for one
// domain and the warnings raised building it.
type DomainResult struct {
	Document *report.Document
	Warnings []error
}

// Domain runs the account pipeline for one domain: normalize, resolve the
// privileged closure, assemble sections. The configuration is read-only and
// may be shared with concurrently running pipelines.
func Domain(ctx context.Context, prefix string, records []*activedirectory.DirectoryRecord, cfg config.Report, normCfg normalize.Config, opts DomainOptions) (*DomainResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalizer := normalize.NewNormalizer(normCfg)

	accounts := make(map[string]*normalize.NormalizedAccount)
	groups := make(map[string]*normalize.NormalizedGroup)
	var computers []*normalize.NormalizedComputer

	for _, record := range records {
		switch record.Class {
		case activedirectory.ClassUser:
			accounts[record.DN] = normalizer.Account(record)
		case activedirectory.ClassGroup:
			groups[record.DN] = normalizer.Group(record)
		case activedirectory.ClassComputer:
			computers = append(computers, normalizer.Computer(record))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver := privileged.NewResolver(cfg.MaxMembershipDepth)
	closure, warnings := resolver.Resolve(cfg.PrivilegedGroups, groups, accounts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := report.NewDocument(prefix)
	doc.Add(
		domainSummarySection(0, prefix, accounts, groups, computers, closure),
		privilegedGroupsSection(1, closure),
		privilegedAccountsSection(2, closure),
		staleAccountsSection(3, accounts),
		computersSection(4, computers),
	)
	if opts.AllAccounts {
		doc.Add(allAccountsSection(5, accounts))
	}
	doc.Add(report.SummarySection(6, warnings))

	return &DomainResult{Document: doc, Warnings: warnings}, nil
}

func domainSummarySection(index int, domain string, accounts map[string]*normalize.NormalizedAccount, groups map[string]*normalize.NormalizedGroup, computers []*normalize.NormalizedComputer, closure *privileged.Result) report.Section {
	stale, disabled, privilegedCount := 0, 0, 0
	for _, a := range accounts {
		if a.Stale {
			stale++
		}
		if !a.Enabled {
			disabled++
		}
		if a.Privileged {
			privilegedCount++
		}
	}

	return report.Pivot("Domain Summary", index, [][2]string{
		{"Domain", domain},
		{"Accounts", fmt.Sprintf("%d", len(accounts))},
		{"Groups", fmt.Sprintf("%d", len(groups))},
		{"Computers", fmt.Sprintf("%d", len(computers))},
		{"Privileged Accounts", fmt.Sprintf("%d", privilegedCount)},
		{"Stale Accounts", fmt.Sprintf("%d", stale)},
		{"Disabled Accounts", fmt.Sprintf("%d", disabled)},
		{"Privileged Seed Groups Resolved", fmt.Sprintf("%d", len(closure.Seeds))},
	})
}

func privilegedGroupsSection(index int, closure *privileged.Result) report.Section {
	section := report.Section{
		Title:   "Privileged Groups",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Seed Group", "Nested Groups", "Resolved Members", "Max Depth"},
	}
	for _, seed := range closure.Seeds {
		maxDepth := 0
		for _, m := range seed.Members {
			if m.Depth > maxDepth {
				maxDepth = m.Depth
			}
		}
		section.Rows = append(section.Rows, report.Row{
			seed.Seed,
			fmt.Sprintf("%d", len(seed.Groups)-1),
			fmt.Sprintf("%d", len(seed.Members)),
			fmt.Sprintf("%d", maxDepth),
		})
	}
	return section
}

// privilegedAccountsSection lists the closure grouped by seed group, then
// alphabetically within a group; accounts under several seeds appear once per
// seed, as the resolver orders them.
func privilegedAccountsSection(index int, closure *privileged.Result) report.Section {
	section := report.Section{
		Title:      "Privileged Accounts",
		Index:      index,
		Kind:       report.Tabular,
		Columns:    accountColumns("Seed Group", "Depth"),
		Highlights: report.AccountHighlights(),
	}
	for _, seed := range closure.Seeds {
		for _, member := range seed.Members {
			section.Rows = append(section.Rows, accountRow(member.Account, seed.Seed, fmt.Sprintf("%d", member.Depth)))
		}
	}
	return section
}

func staleAccountsSection(index int, accounts map[string]*normalize.NormalizedAccount) report.Section {
	section := report.Section{
		Title:      "Stale Accounts",
		Index:      index,
		Kind:       report.Tabular,
		Columns:    accountColumns(),
		Highlights: report.AccountHighlights(),
	}
	for _, account := range sortedAccounts(accounts) {
		if account.Stale {
			section.Rows = append(section.Rows, accountRow(account))
		}
	}
	return section
}

func allAccountsSection(index int, accounts map[string]*normalize.NormalizedAccount) report.Section {
	section := report.Section{
		Title:      "All Accounts",
		Index:      index,
		Kind:       report.Tabular,
		Columns:    accountColumns(),
		Highlights: report.AccountHighlights(),
	}
	for _, account := range sortedAccounts(accounts) {
		section.Rows = append(section.Rows, accountRow(account))
	}
	return section
}

func computersSection(index int, computers []*normalize.NormalizedComputer) report.Section {
	section := report.Section{
		Title:   "Computers",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Name", "Enabled", "Operating System", "Last Logon", "Stale"},
		Highlights: []report.HighlightRule{
			{Name: "disabled-computer", Apply: func(col, val string, _ report.Row) report.Style {
				if col == "Enabled" && val == "false" {
					return report.StyleWarn
				}
				return report.StyleNone
			}},
			{Name: "stale-computer", Apply: func(col, val string, _ report.Row) report.Style {
				if col == "Stale" && val == "true" {
					return report.StyleWarn
				}
				return report.StyleNone
			}},
		},
	}

	sorted := make([]*normalize.NormalizedComputer, len(computers))
	copy(sorted, computers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SAMAccountName < sorted[j].SAMAccountName })

	for _, c := range sorted {
		section.Rows = append(section.Rows, report.Row{
			c.SAMAccountName,
			formatBool(c.Enabled),
			c.OperatingSystem,
			formatTime(c.LastLogon),
			formatBool(c.Stale),
		})
	}
	return section
}

func accountColumns(extra ...string) []string {
	return append(extra,
		"Account", "Enabled", "Locked", "Password Never Expires",
		"Password Not Required", "Password Last Set", "Last Logon", "Stale",
		"Admin Count", "Privileged", "Privileged Via", "SID",
		"Service Principals", "Description", "Groups",
	)
}

func accountRow(a *normalize.NormalizedAccount, extra ...string) report.Row {
	return append(report.Row(extra),
		a.SAMAccountName,
		formatBool(a.Enabled),
		formatBool(a.Locked),
		formatBool(a.PasswordNeverExpires),
		formatBool(a.PasswordNotRequired),
		formatTime(a.PasswordLastSet),
		formatTime(a.LastLogon),
		formatBool(a.Stale),
		formatBool(a.AdminCount),
		formatBool(a.Privileged),
		joinValues(a.PrivilegedVia),
		a.SID,
		joinValues(a.ServicePrincipals),
		a.Description,
		joinValues(a.MemberOf),
	)
}

func sortedAccounts(accounts map[string]*normalize.NormalizedAccount) []*normalize.NormalizedAccount {
	out := make([]*normalize.NormalizedAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SAMAccountName < out[j].SAMAccountName })
	return out
}
