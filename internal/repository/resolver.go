package repository

import "context"

// Relation resolution replays the joins a relational engine would perform.
// Dangling references degrade to an absent relation instead of failing the
// containing read; only real backend errors propagate.

// ResolveOne looks up a one-to-one relation by its foreign key. A nil id or
// an id that no longer resolves yields nil.
func ResolveOne[T any, PT Pointer[T]](ctx context.Context, store Repository[T, PT], id *uint) (PT, error) {
	if id == nil {
		return nil, nil
	}
	return store.FindByID(ctx, *id)
}

// ResolveMany looks up each id of a many-to-many relation, preserving the
// order of the id set and silently skipping ids that do not resolve.
func ResolveMany[T any, PT Pointer[T]](ctx context.Context, store Repository[T, PT], ids []uint) ([]PT, error) {
	resolved := make([]PT, 0, len(ids))
	for _, id := range ids {
		record, err := store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		resolved = append(resolved, record)
	}
	return resolved, nil
}
