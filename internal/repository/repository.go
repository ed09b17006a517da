// Package repository provides whole-collection persistence for the domain
// entities behind a single capability shared by the file-backed store and the
// relational store, plus the relation resolution that substitutes for joins.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Entity is implemented by every persisted model. Identity is assigned once,
// by the owning store, and is unique within that store.
type Entity interface {
	EntityID() uint
	SetEntityID(id uint)
}

// Pointer constrains PT to a pointer to the entity type so stores can
// instantiate records without reflection.
type Pointer[T any] interface {
	*T
	Entity
}

// Repository is the store contract both backends present. FindByID returns
// (nil, nil) when no record matches; callers translate that into their own
// not-found handling. Criteria keys are the entity's JSON field names, which
// equal the relational column names.
type Repository[T any, PT Pointer[T]] interface {
	FindAll(ctx context.Context) ([]PT, error)
	FindByID(ctx context.Context, id uint) (PT, error)
	FindBy(ctx context.Context, criteria map[string]any) ([]PT, error)
	Create(ctx context.Context, record PT) (PT, error)
	Update(ctx context.Context, id uint, patch map[string]any) (PT, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

func clone[T any, PT Pointer[T]](record PT) (PT, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	copied := PT(new(T))
	if err := json.Unmarshal(raw, copied); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return copied, nil
}

func toMap(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record fields: %w", err)
	}
	return fields, nil
}

// mergePatch shallow-merges patch onto the record through its JSON form,
// replacing listed fields and preserving the rest. The id field is never
// overridable.
func mergePatch[T any, PT Pointer[T]](record PT, patch map[string]any) (PT, error) {
	fields, err := toMap(record)
	if err != nil {
		return nil, err
	}
	for key, value := range patch {
		if key == "id" {
			continue
		}
		fields[key] = value
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode merged record: %w", err)
	}
	merged := PT(new(T))
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, fmt.Errorf("decode merged record: %w", err)
	}
	merged.SetEntityID(record.EntityID())
	return merged, nil
}

// jsonEqual compares two values through their JSON encodings, matching the
// exact-equality semantics of the stored form.
func jsonEqual(a, b any) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(rawA, rawB)
}
