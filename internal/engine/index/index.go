package index

import (
	"sort"
	"sync"

	"inscope/internal/engine/parser"
	"inscope/internal/shared/observability"
	"inscope/internal/syntax"
)

// Container is a resolved import target: a module, protocol, or impl,
// with its call-definition clauses in definition order and the alias
// bindings declared inside it.
type Container struct {
	Kind    parser.ContainerKind
	Name    string
	Clauses []parser.Clause
	Aliases map[string][]string // binding name -> dotted target parts
	Pos     syntax.Location
}

// EachClause calls visit on each exposed call-definition clause in
// definition order, stopping when visit returns false. Private clauses are
// not exposed to importers.
func (c *Container) EachClause(visit func(parser.Clause) bool) {
	if c == nil {
		return
	}
	for _, cl := range c.Clauses {
		if cl.Private {
			continue
		}
		if !visit(cl) {
			return
		}
	}
}

// Index is the thread-safe registry of parsed files. A re-added path
// replaces its prior contributions so watch-mode edits never leave stale
// containers behind.
type Index struct {
	mu         sync.RWMutex
	files      map[string]*parser.File
	containers map[string]*Container
}

func New() *Index {
	return &Index{
		files:      make(map[string]*parser.File),
		containers: make(map[string]*Container),
	}
}

func (ix *Index) AddFile(file *parser.File) {
	if file == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.files[file.Path] = file
	ix.rebuildLocked()
}

func (ix *Index) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.files[path]; !ok {
		return
	}
	delete(ix.files, path)
	ix.rebuildLocked()
}

// rebuildLocked reconstructs the container map from all files, in sorted
// path order so merged containers have a deterministic clause order.
func (ix *Index) rebuildLocked() {
	paths := make([]string, 0, len(ix.files))
	for p := range ix.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	containers := make(map[string]*Container)
	clauseCount := 0
	for _, p := range paths {
		for _, decl := range ix.files[p].Containers {
			c, ok := containers[decl.Name]
			if !ok {
				c = &Container{
					Kind:    decl.Kind,
					Name:    decl.Name,
					Aliases: make(map[string][]string),
					Pos:     decl.Pos,
				}
				containers[decl.Name] = c
			}
			c.Clauses = append(c.Clauses, decl.Clauses...)
			clauseCount += len(decl.Clauses)
			for _, al := range decl.Aliases {
				c.Aliases[al.Name] = al.Target
			}
		}
	}
	ix.containers = containers

	observability.IndexedContainers.Set(float64(len(containers)))
	observability.IndexedClauses.Set(float64(clauseCount))
}

// Lookup returns a copy of the container with the given full dotted name.
func (ix *Index) Lookup(name string) (*Container, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	c, ok := ix.containers[name]
	if !ok {
		return nil, false
	}
	return cloneContainer(c), true
}

// AliasTarget resolves one alias binding lexically: the scope's own
// aliases first, then each enclosing container's, innermost out.
func (ix *Index) AliasTarget(scope, name string) ([]string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, s := range enclosingScopes(scope) {
		if c, ok := ix.containers[s]; ok {
			if target, ok := c.Aliases[name]; ok {
				return append([]string(nil), target...), true
			}
		}
	}
	return nil, false
}

// Directives returns every import directive of every indexed file, in
// sorted path order.
func (ix *Index) Directives() []parser.Directive {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	paths := make([]string, 0, len(ix.files))
	for p := range ix.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []parser.Directive
	for _, p := range paths {
		out = append(out, ix.files[p].Directives...)
	}
	return out
}

func (ix *Index) FileCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.files)
}

func (ix *Index) ContainerCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.containers)
}

// Containers returns copies of all containers keyed by full name.
func (ix *Index) Containers() map[string]*Container {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	res := make(map[string]*Container, len(ix.containers))
	for name, c := range ix.containers {
		res[name] = cloneContainer(c)
	}
	return res
}

func cloneContainer(c *Container) *Container {
	out := &Container{
		Kind:    c.Kind,
		Name:    c.Name,
		Clauses: append([]parser.Clause(nil), c.Clauses...),
		Aliases: make(map[string][]string, len(c.Aliases)),
		Pos:     c.Pos,
	}
	for k, v := range c.Aliases {
		out.Aliases[k] = append([]string(nil), v...)
	}
	return out
}

// enclosingScopes lists scope and every ancestor scope, innermost first,
// for "A.B.C": A.B.C, A.B, A.
func enclosingScopes(scope string) []string {
	if scope == "" {
		return nil
	}
	var scopes []string
	for i := len(scope); i > 0; {
		scopes = append(scopes, scope[:i])
		j := -1
		for k := i - 1; k >= 0; k-- {
			if scope[k] == '.' {
				j = k
				break
			}
		}
		i = j
		if j < 0 {
			break
		}
	}
	return scopes
}
