package tree

import (
	"context"
	"sort"
	"sync"
)

/*
Store is an interface to manage a store where grown trees are
kept under a name, so that they can be saved once and loaded for
prediction any number of times.

All its methods take a context that may allow cancelling the
operation (thus forcing the return of an error) if the
implementation allows it.
*/
type Store interface {
	// Save takes a name and a tree and stores the tree under
	// the name, replacing whatever tree the name pointed to
	// before. It returns an error if the tree cannot be stored.
	Save(ctx context.Context, name string, t *Tree) error
	// Load takes a name and returns the tree stored under it,
	// nil if there is none, or an error if the store cannot be
	// queried.
	Load(ctx context.Context, name string) (*Tree, error)
	// List returns the names of the trees in the store or an
	// error if the store cannot be queried.
	List(ctx context.Context) ([]string, error)
	// Delete takes a name and removes the tree stored under it,
	// if any. It returns an error if the removal cannot be
	// performed.
	Delete(ctx context.Context, name string) error
	// Close closes the store. Implementations should free any
	// resources in use as well as ensure any pending changes are
	// applied before returning, unless the context expires
	// first.
	Close(ctx context.Context) error
}

type memoryStore struct {
	trees map[string]*Tree
	lock  *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store with the
// process memory space as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		trees: make(map[string]*Tree),
		lock:  &sync.RWMutex{},
	}
}

func (ms *memoryStore) Save(ctx context.Context, name string, t *Tree) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.trees[name] = t
		return nil
	})
}

func (ms *memoryStore) Load(ctx context.Context, name string) (*Tree, error) {
	var t *Tree
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		t = ms.trees[name]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ms *memoryStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		for name := range ms.trees {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
