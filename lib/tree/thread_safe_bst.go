package tree

import (
	"sync"
)

var _ BST = (*threadSafeBST)(nil)

// threadSafeBST guards the whole container with a single lock.
// Lookups are pure, so they share the read lock.
type threadSafeBST struct {
	lock sync.RWMutex
	tree *bst
}

func (t *threadSafeBST) Add(key, val int32) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Add(key, val)
}

func (t *threadSafeBST) Get(key int32) (int32, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Get(key)
}

func (t *threadSafeBST) Remove(key int32) (int32, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Remove(key)
}

func (t *threadSafeBST) walk(action func(idx int64, key, val int32) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	t.tree.walk(action)
}

func NewThreadSafeBST() BST {
	return &threadSafeBST{
		tree: &bst{},
	}
}
