package resolver

import (
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/util"
)

// match finds the single item whose id equals ref, or failing that whose id
// starts with ref. When name is non-nil, a folded name match is tried
// between the two.
func match[T any](resource string, items []T, ref string, id func(T) string, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, lnerr.InvalidField(resource, "reference is empty")
	}

	for _, item := range items {
		if id(item) == ref {
			return item, nil
		}
	}

	if name != nil {
		if found, ok, err := unique(resource, items, ref, id, func(item T) bool {
			return util.SameName(name(item), ref)
		}); ok || err != nil {
			return found, err
		}
	}

	if found, ok, err := unique(resource, items, ref, id, func(item T) bool {
		return strings.HasPrefix(id(item), ref)
	}); ok || err != nil {
		return found, err
	}

	return zero, &lnerr.NotFoundError{Resource: resource, ID: ref}
}

func unique[T any](resource string, items []T, ref string, id func(T) string, pred func(T) bool) (T, bool, error) {
	var found, zero T
	var ids []string
	for _, item := range items {
		if pred(item) {
			found = item
			ids = append(ids, id(item))
		}
	}
	switch len(ids) {
	case 0:
		return zero, false, nil
	case 1:
		return found, true, nil
	}
	return zero, false, lnerr.Ambiguous(resource, ref, ids)
}
