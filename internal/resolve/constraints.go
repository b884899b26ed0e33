package resolve

import (
	"slices"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// constraintGraph holds the cross-argument rules of one command as
// directed edges keyed by argument id. Conflicts are stored in both
// directions so that a rule declared on either side is found from both.
type constraintGraph struct {
	order    []string
	rank     map[string]int
	required []string
	requires map[string][]string
	excludes map[string][]string
}

func newConstraintGraph(cmd *catalog.Command) *constraintGraph {
	g := &constraintGraph{
		rank:     make(map[string]int, len(cmd.Args)),
		requires: make(map[string][]string),
		excludes: make(map[string][]string),
	}
	for i, a := range cmd.Args {
		g.order = append(g.order, a.ID)
		g.rank[a.ID] = i
		if a.Required {
			g.required = append(g.required, a.ID)
		}
	}
	for _, a := range cmd.Args {
		for _, dep := range a.DependsOn {
			g.addEdge(g.requires, a.ID, dep)
		}
		for _, other := range a.ConflictsWith {
			g.addEdge(g.excludes, a.ID, other)
			g.addEdge(g.excludes, other, a.ID)
		}
	}
	for id := range g.excludes {
		slices.SortFunc(g.excludes[id], func(x, y string) int { return g.rank[x] - g.rank[y] })
	}
	return g
}

func (g *constraintGraph) addEdge(edges map[string][]string, from, to string) {
	if slices.Contains(edges[from], to) {
		return
	}
	edges[from] = append(edges[from], to)
}

// walk returns every cross-argument violation. Arguments listed in
// failed already carry a local error and are not reported as missing.
func (g *constraintGraph) walk(present func(id string) bool, failed map[string]bool) ErrorList {
	var errs ErrorList

	for _, id := range g.required {
		if !present(id) && !failed[id] {
			errs = append(errs, errMissingRequired(id))
		}
	}

	for _, id := range g.order {
		if !present(id) {
			continue
		}
		for _, other := range g.excludes[id] {
			// Each unordered pair is reported from its earlier member.
			if g.rank[other] <= g.rank[id] {
				continue
			}
			if present(other) {
				errs = append(errs, errConflicting(id, other))
			}
		}
	}

	for _, id := range g.order {
		if !present(id) {
			continue
		}
		for _, dep := range g.requires[id] {
			if !present(dep) {
				errs = append(errs, errUnmetDependency(id, dep))
			}
		}
	}

	return errs
}

// Validate normalizes every declared argument and checks the constraints
// between them. It returns the normalized values alongside every error
// found: local errors first, then unknown ids, then cross-argument errors.
func Validate(cmd *catalog.Command, values Values) (Normalized, ErrorList) {
	norm := make(Normalized, len(cmd.Args))
	failed := make(map[string]bool)
	var errs ErrorList

	for _, a := range cmd.Args {
		v, err := Normalize(a, values[a.ID])
		norm[a.ID] = v
		if err != nil {
			err.Command = cmd.ID
			errs = append(errs, *err)
			failed[a.ID] = true
		}
	}

	var unknown []string
	for id := range values {
		if _, ok := cmd.Arg(id); !ok {
			unknown = append(unknown, id)
		}
	}
	slices.Sort(unknown)
	for _, id := range unknown {
		errs = append(errs, errUnknownArgument(cmd.ID, id))
	}

	for _, err := range newConstraintGraph(cmd).walk(norm.Present, failed) {
		err.Command = cmd.ID
		errs = append(errs, err)
	}

	return norm, errs
}
