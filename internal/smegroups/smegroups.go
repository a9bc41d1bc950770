// Package smegroups maps code-component names to the developer groups
// that should be made aware of changes touching them.
package smegroups

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Groups is the component -> member mapping loaded from the repository.
// It is loaded fresh for every evaluation, never cached across events.
type Groups struct {
	byComponent map[string][]string
}

// Parse reads a YAML mapping of component name to member list.
func Parse(data []byte) (*Groups, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse SME group mapping: %w", err)
	}
	if raw == nil {
		raw = map[string][]string{}
	}
	return &Groups{byComponent: raw}, nil
}

// Members returns the member list for a component. Unknown components
// yield an empty list, not an error.
func (g *Groups) Members(component string) []string {
	return g.byComponent[component]
}

// Len returns the number of configured components.
func (g *Groups) Len() int {
	return len(g.byComponent)
}

// ComponentMembers is the per-component slice of an assignment, kept for
// the explanatory comment.
type ComponentMembers struct {
	Component string
	Members   []string
}

// Assignment is the outcome of matching ticket components against the
// group mapping. Assignees are deduplicated in first-seen order.
type Assignment struct {
	Assignees    []string
	PerComponent []ComponentMembers
}

// Empty reports whether the assignment would mutate nothing.
func (a Assignment) Empty() bool {
	return len(a.Assignees) == 0
}

// Decide computes the assignment for the given ticket components.
// Components without a configured group contribute nothing.
func Decide(components []string, groups *Groups) Assignment {
	var out Assignment
	seen := make(map[string]bool)

	for _, component := range components {
		members := groups.Members(component)
		if len(members) == 0 {
			continue
		}
		out.PerComponent = append(out.PerComponent, ComponentMembers{
			Component: component,
			Members:   members,
		})
		for _, m := range members {
			if seen[m] {
				continue
			}
			seen[m] = true
			out.Assignees = append(out.Assignees, m)
		}
	}

	return out
}
