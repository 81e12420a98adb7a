package naming

import (
	"fmt"
	"path/filepath"
	"sync"
)

// ExistsFunc reports whether a path is already taken on disk.
type ExistsFunc func(path string) (bool, error)

// CollisionResolver picks a free destination path. A candidate is free when
// nothing exists at it on disk and no other input claimed it earlier in the
// same pass (so a dry run predicts the same names a real run would pick).
// Taken names get a "_N" counter before the extension: name.pdf, name_1.pdf,
// name_2.pdf, … All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // destination path → input path that claimed it
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{owners: make(map[string]string)}
}

// Resolve returns the first free variant of requested for input and claims
// it. A path already claimed by input itself counts as free. An error from
// exists aborts resolution.
func (cr *CollisionResolver) Resolve(input, requested string, exists ExistsFunc) (string, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	dir := filepath.Dir(requested)
	stem, ext := splitExt(filepath.Base(requested))

	candidate := requested
	for counter := 1; ; counter++ {
		free, err := cr.isFree(input, candidate, exists)
		if err != nil {
			return "", err
		}
		if free {
			cr.owners[candidate] = input
			return candidate, nil
		}
		candidate = filepath.Join(dir, numbered(stem, ext, counter))
	}
}

// Release drops every claim held by input. Callers release once the
// claimed path is backed by a real file, or when the move did not happen.
func (cr *CollisionResolver) Release(input string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	for dest, owner := range cr.owners {
		if owner == input {
			delete(cr.owners, dest)
		}
	}
}

func (cr *CollisionResolver) isFree(input, candidate string, exists ExistsFunc) (bool, error) {
	if owner, ok := cr.owners[candidate]; ok && owner != input {
		return false, nil
	}
	taken, err := exists(candidate)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// numbered builds "stem_N.ext", or "stem_N" when there is no extension.
func numbered(stem, ext string, n int) string {
	if ext == "" {
		return fmt.Sprintf("%s_%d", stem, n)
	}
	return fmt.Sprintf("%s_%d.%s", stem, n, ext)
}
