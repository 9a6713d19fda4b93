package maanova

import (
	"github.com/pkg/errors"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// ErrGeneListNotFound is returned by GeneLists.Get for an unknown name.
var ErrGeneListNotFound = errors.New("gene list not found")

// GeneLists is a named collection of probe identifier lists stored in the
// interpreter as one list of character vectors.
//
// Every change replaces a whole entry, and Add and Remove read the entry
// before writing it back. There is no locking: two writers changing the same
// entry concurrently can lose one of the updates.
type GeneLists struct {
	RObject
}

func (g *GeneLists) exists() string {
	return existsCall(g.accessor)
}

// ifExists renders `if (exists(...)) then else otherwise`.
func (g *GeneLists) ifExists(then, otherwise string) string {
	return "if (" + g.exists() + ") " + then + " else " + otherwise
}

// Names returns the names of all gene lists.
func (g *GeneLists) Names() ([]string, error) {
	return g.evalStrings(g.ifExists(rsyntax.Call("names", rsyntax.Positional(g.accessor)), "character(0)"))
}

// Get returns the identifiers of the named list.
func (g *GeneLists) Get(name string) ([]string, error) {
	value, err := g.engine.Eval(g.ifExists(rsyntax.Element(g.accessor, name), "NULL"))
	if err != nil {
		return nil, err
	}
	if value.IsNull() {
		return nil, errors.Wrapf(ErrGeneListNotFound, "%q", name)
	}
	return value.AsStrings()
}

// Put replaces the named list with ids, creating the collection when it does
// not exist yet.
func (g *GeneLists) Put(name string, ids []string) error {
	create := "if (!" + g.exists() + ") " + rsyntax.Assign(g.accessor, "list()")
	if err := g.engine.VoidEval(create); err != nil {
		return errors.Wrapf(err, "cannot create %s", g.accessor)
	}
	assign := rsyntax.Assign(rsyntax.Element(g.accessor, name), rsyntax.StringVector(unique(ids)))
	return errors.Wrapf(g.engine.VoidEval(assign), "cannot store gene list %q", name)
}

// Add appends ids which are not in the named list yet, creating the list
// when needed.
func (g *GeneLists) Add(name string, ids []string) error {
	current, err := g.Get(name)
	if err != nil && errors.Cause(err) != ErrGeneListNotFound {
		return err
	}
	return g.Put(name, append(current, ids...))
}

// Remove drops ids from the named list.
func (g *GeneLists) Remove(name string, ids []string) error {
	current, err := g.Get(name)
	if err != nil {
		return err
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]string, 0, len(current))
	for _, id := range current {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	return g.Put(name, kept)
}

// Delete removes the named list.
func (g *GeneLists) Delete(name string) error {
	statement := "if (" + g.exists() + ") " + rsyntax.Assign(rsyntax.Element(g.accessor, name), "NULL")
	return errors.Wrapf(g.engine.VoidEval(statement), "cannot delete gene list %q", name)
}

// DeleteAll removes the whole collection.
func (g *GeneLists) DeleteAll() error {
	statement := "if (" + g.exists() + ") " + rsyntax.Call("rm",
		rsyntax.Named("list", rsyntax.String(g.accessor)),
		rsyntax.Named("envir", "globalenv()"))
	return errors.Wrapf(g.engine.VoidEval(statement), "cannot delete %s", g.accessor)
}

// unique drops repeated ids keeping the first occurrence.
func unique(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
