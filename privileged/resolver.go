// Package privileged computes the transitive closure of privileged-group
// membership over a potentially cyclic group graph.
package privileged

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"f0oster/adreport/normalize"
)

// ErrMembershipDepthExceeded classifies closure branches truncated at the
// configured depth cap. The rest of the closure is unaffected.
var ErrMembershipDepthExceeded = errors.New("membership depth exceeded")

// DepthExceededError names the branch that hit the cap.
type DepthExceededError struct {
	Seed  string
	Group string
	Depth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("membership depth cap %d reached under %q at group %q; branch truncated", e.Depth, e.Seed, e.Group)
}

func (e *DepthExceededError) Unwrap() error {
	return ErrMembershipDepthExceeded
}

// PrivilegedGroup describes one group reached during resolution.
type PrivilegedGroup struct {
	Name          string
	DN            string
	Depth         int // nesting depth at which the group was discovered; seeds are 0
	DirectMembers []string
}

// Member is an account reached from a seed group, at its shortest depth.
type Member struct {
	Account *normalize.NormalizedAccount
	Depth   int
}

// SeedResult holds one seed group's resolved closure. Accounts are ordered
// alphabetically; an account nested under several seeds appears once per seed.
type SeedResult struct {
	Seed    string
	Groups  []PrivilegedGroup
	Members []Member
}

// Result is the full privileged closure, grouped by seed in seed order.
type Result struct {
	Seeds []SeedResult
}

// Resolver walks group membership breadth-first from each configured seed.
type Resolver struct {
	maxDepth int
}

// NewResolver caps traversal at maxDepth group hops; direct members sit at
// depth 1. A non-positive cap disables the limit.
func NewResolver(maxDepth int) *Resolver {
	return &Resolver{maxDepth: maxDepth}
}

// Resolve computes the closure for each seed group name. Groups and accounts
// are the domain's normalized objects keyed by DN. Accounts reached from a
// seed get their Privileged fields set; everything else is left untouched.
// Warnings report truncated branches and seeds that match no group.
func (r *Resolver) Resolve(
	seeds []string,
	groups map[string]*normalize.NormalizedGroup,
	accounts map[string]*normalize.NormalizedAccount,
) (*Result, []error) {
	byName := make(map[string]*normalize.NormalizedGroup, len(groups))
	for _, g := range groups {
		byName[strings.ToLower(g.SAMAccountName)] = g
	}

	var warnings []error
	result := &Result{}

	for _, seed := range seeds {
		seedGroup, ok := byName[strings.ToLower(seed)]
		if !ok {
			warnings = append(warnings, fmt.Errorf("privileged seed group %q not found in domain", seed))
			continue
		}

		seedResult, seedWarnings := r.resolveSeed(seed, seedGroup, groups, accounts)
		warnings = append(warnings, seedWarnings...)
		result.Seeds = append(result.Seeds, *seedResult)
	}

	return result, warnings
}

type queueItem struct {
	dn    string
	depth int
}

// resolveSeed runs one breadth-first traversal. The visited set is keyed by
// member DN, which both breaks membership cycles and collapses diamond
// paths to a single entry at the shortest reaching depth.
func (r *Resolver) resolveSeed(
	seed string,
	seedGroup *normalize.NormalizedGroup,
	groups map[string]*normalize.NormalizedGroup,
	accounts map[string]*normalize.NormalizedAccount,
) (*SeedResult, []error) {
	var warnings []error

	visited := map[string]bool{seedGroup.DN: true}
	queue := []queueItem{{dn: seedGroup.DN, depth: 0}}

	seedResult := &SeedResult{Seed: seed}
	var members []Member

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		group := groups[item.dn]
		if group == nil {
			continue
		}

		seedResult.Groups = append(seedResult.Groups, PrivilegedGroup{
			Name:          group.SAMAccountName,
			DN:            group.DN,
			Depth:         item.depth,
			DirectMembers: group.Members,
		})

		if r.maxDepth > 0 && item.depth+1 > r.maxDepth {
			warnings = append(warnings, &DepthExceededError{
				Seed:  seed,
				Group: group.SAMAccountName,
				Depth: r.maxDepth,
			})
			continue
		}

		for _, memberDN := range group.Members {
			if visited[memberDN] {
				continue
			}
			visited[memberDN] = true

			if account, ok := accounts[memberDN]; ok {
				account.Privileged = true
				account.PrivilegedVia = mergeSeed(account.PrivilegedVia, seed)
				members = append(members, Member{Account: account, Depth: item.depth + 1})
				continue
			}
			if _, ok := groups[memberDN]; ok {
				queue = append(queue, queueItem{dn: memberDN, depth: item.depth + 1})
			}
			// members outside the fetched record set (foreign security
			// principals, contacts) are ignored
		}
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].Account.SAMAccountName < members[j].Account.SAMAccountName
	})
	seedResult.Members = members
	return seedResult, warnings
}

// mergeSeed records a reaching seed once, keeping the list sorted.
func mergeSeed(via []string, seed string) []string {
	for _, v := range via {
		if v == seed {
			return via
		}
	}
	via = append(via, seed)
	sort.Strings(via)
	return via
}
