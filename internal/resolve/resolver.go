// Package resolve maps package names to their installable spelling on
// one target manager, using a read-only repository probe and a narrow
// fuzzy search, memoized per resolver.
package resolve

import (
	"os/exec"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/pkgmgr"
)

// noMatch marks a name that was probed and searched without result, so
// repeated lookups skip the external queries.
const noMatch = "\x00nomatch"

const cacheSize = 512

// Resolver resolves names for a single manager. The zero value is not
// usable; construct with New.
type Resolver struct {
	manager pkgmgr.Manager
	cache   *lru.Cache[string, string]

	// Injectable for tests. probe returns nil when the package exists
	// exactly; search returns raw search output.
	probe  func(pkg string) error
	search func(pkg string) (string, error)
}

// New builds a Resolver for the given manager.
func New(manager pkgmgr.Manager) *Resolver {
	cache, _ := lru.New[string, string](cacheSize)
	r := &Resolver{manager: manager, cache: cache}
	r.probe = r.runProbe
	r.search = r.runSearch
	return r
}

// Resolve returns the installable spelling of pkg for this resolver's
// manager. Query failures are swallowed; when nothing better is found
// the original name comes back unchanged.
func (r *Resolver) Resolve(pkg string) string {
	if cached, ok := r.cache.Get(pkg); ok {
		if cached == noMatch {
			return pkg
		}
		return cached
	}

	if err := r.probe(pkg); err == nil {
		r.cache.Add(pkg, pkg)
		return pkg
	}

	if replacement := r.searchCandidate(pkg); replacement != "" {
		log := logging.Get("resolve")
		log.Debug().
			Str("manager", string(r.manager)).
			Str("from", pkg).
			Str("to", replacement).
			Msg("swapped package name")
		r.cache.Add(pkg, replacement)
		return replacement
	}

	r.cache.Add(pkg, noMatch)
	return pkg
}

// searchCandidate runs the fuzzy search and accepts a result only when
// it matches a known rename pattern of pkg.
func (r *Resolver) searchCandidate(pkg string) string {
	out, err := r.search(pkg)
	if err != nil {
		return ""
	}
	for _, candidate := range pkgmgr.ParseSearchOutput(r.manager, out) {
		if acceptCandidate(pkg, candidate) {
			return candidate
		}
	}
	return ""
}

// acceptCandidate reports whether candidate is a highly probable rename
// of pkg. The pattern set is deliberately narrow; loose search hits must
// never substitute a package.
func acceptCandidate(pkg, candidate string) bool {
	switch candidate {
	case pkg + "-stable", pkg + "-bin", pkg + "-git", pkg + "-esr",
		"python3-" + pkg, "lib" + pkg:
		return true
	}
	return false
}

func (r *Resolver) runProbe(pkg string) error {
	args := pkgmgr.ProbeCommand(r.manager, pkg)
	if args == nil {
		return exec.ErrNotFound
	}
	return exec.Command(args[0], args[1:]...).Run()
}

func (r *Resolver) runSearch(pkg string) (string, error) {
	args := pkgmgr.SearchCommand(r.manager, pkg)
	if args == nil {
		return "", exec.ErrNotFound
	}
	out, err := exec.Command(args[0], args[1:]...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Set of resolvers keyed by manager, built lazily.
type Set struct {
	resolvers map[pkgmgr.Manager]*Resolver
}

// NewSet returns an empty resolver set.
func NewSet() *Set {
	return &Set{resolvers: make(map[pkgmgr.Manager]*Resolver)}
}

// For returns the cached resolver for a manager, creating it on first
// use.
func (s *Set) For(manager pkgmgr.Manager) *Resolver {
	if r, ok := s.resolvers[manager]; ok {
		return r
	}
	r := New(manager)
	s.resolvers[manager] = r
	return r
}
