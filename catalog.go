/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/dataaccess/execution"
)

// Catalog manages one Repository per entity type over a shared execution
// context. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	ec    *execution.Context
	opts  []Option
	repos map[reflect.Type]any
	names map[reflect.Type]string
}

// NewCatalog creates a Catalog whose repositories run on ec and are built
// with opts.
func NewCatalog(ec *execution.Context, opts ...Option) *Catalog {
	return &Catalog{
		ec:    ec,
		opts:  opts,
		repos: make(map[reflect.Type]any),
		names: make(map[reflect.Type]string),
	}
}

// Context returns the execution context shared by the catalog's
// repositories.
func (c *Catalog) Context() *execution.Context {
	return c.ec
}

// RepositoryFor returns the repository for E, creating it on first use.
// Every call for the same E returns the same repository.
func RepositoryFor[E Entity](c *Catalog) *Repository[E] {
	typ := reflect.TypeOf((*E)(nil)).Elem()

	c.mu.RLock()
	repo, exists := c.repos[typ]
	c.mu.RUnlock()
	if exists {
		return repo.(*Repository[E])
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if repo, exists := c.repos[typ]; exists {
		return repo.(*Repository[E])
	}

	r := New[E](c.ec, c.opts...)
	c.repos[typ] = r
	c.names[typ] = r.EntityName()
	return r
}

// EntityNames lists the entity types that have a repository, sorted.
func (c *Catalog) EntityNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
