// Package querykeys is the single source of cache addresses for read
// operations. A key is an ordered tuple [entity, scope, discriminators...];
// invalidation works on key prefixes, so the tuple order is the hierarchy.
package querykeys

import (
	"encoding/json"
	"net/url"
)

const (
	ScopeList     = "list"
	ScopeDetail   = "detail"
	ScopeEnriched = "enriched"
	ScopeByUser   = "by_user"
)

// Key is a structured cache address.
type Key []string

// Filters is anything that can render itself as query parameters. Two filter
// values with the same set fields produce the same key regardless of field order.
type Filters interface {
	Params() url.Values
}

// Entity returns the entity namespace of the key.
func (k Key) Entity() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether prefix addresses k or one of its ancestors.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// String renders the key as a JSON array, which is also its storage form.
func (k Key) String() string {
	b, _ := json.Marshal([]string(k))
	return string(b)
}

// Parse is the inverse of String.
func Parse(s string) (Key, error) {
	var parts []string
	if err := json.Unmarshal([]byte(s), &parts); err != nil {
		return nil, err
	}
	return Key(parts), nil
}

// Builder produces the keys of one entity namespace.
type Builder struct {
	entity string
}

func NewBuilder(entity string) Builder {
	return Builder{entity: entity}
}

func (b Builder) Name() string {
	return b.entity
}

// All addresses every cached read of the entity.
func (b Builder) All() Key {
	return Key{b.entity}
}

// Lists addresses a filtered list. With nil or empty filters it is the
// prefix of every list of the entity.
func (b Builder) Lists(filters Filters) Key {
	key := Key{b.entity, ScopeList}
	if filters == nil {
		return key
	}
	if params := filters.Params(); len(params) > 0 {
		key = append(key, params.Encode())
	}
	return key
}

// Detail addresses a single record. Entities with composite identities
// (tasks) pass more than one part.
func (b Builder) Detail(id string, more ...string) Key {
	key := Key{b.entity, ScopeDetail, id}
	return append(key, more...)
}

// Scoped addresses a custom scope such as enriched views.
func (b Builder) Scoped(scope string, parts ...string) Key {
	key := Key{b.entity, scope}
	return append(key, parts...)
}

var (
	Profiles          = NewBuilder("profiles")
	Companies         = NewBuilder("companies")
	Cases             = NewBuilder("cases")
	Documents         = NewBuilder("documents")
	Payments          = NewBuilder("payments")
	Communications    = NewBuilder("communications")
	Tasks             = NewBuilder("tasks")
	TaskCategories    = NewBuilder("task_categories")
	Services          = NewBuilder("services")
	ServiceCategories = NewBuilder("service_categories")
	DocumentTypes     = NewBuilder("document_types")
)

// CompanyByUser addresses the company resolved for a portal user. An empty
// id gives the prefix of every such lookup.
func CompanyByUser(userID string) Key {
	if userID == "" {
		return Companies.Scoped(ScopeByUser)
	}
	return Companies.Scoped(ScopeByUser, userID)
}

// EnrichedCases addresses the enriched case list of one company. Passing an
// empty id gives the prefix of every enriched list.
func EnrichedCases(companyID string) Key {
	if companyID == "" {
		return Cases.Scoped(ScopeEnriched)
	}
	return Cases.Scoped(ScopeEnriched, companyID)
}
