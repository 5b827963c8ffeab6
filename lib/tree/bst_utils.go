package tree

import (
	"fmt"
)

type inorderWalker interface {
	walk(action func(idx int64, key, val int32) bool)
}

// Decorator is a container wrapping another one, i.e. to observe its
// operations. The wrapped container is the one holding the entries.
type Decorator interface {
	BST
	Unwrap() BST
}

// OrderViolationValidate checks by an inorder traversal that the keys
// of the tree are strictly increasing, which holds iff every left
// subtree is less and every right subtree is greater than its root.
// Decorators are unwrapped until a container of this package is found.
func OrderViolationValidate(tree BST) error {
	inner := tree
	w, ok := inner.(inorderWalker)
	for !ok {
		d, isDecorator := inner.(Decorator)
		if !isDecorator {
			return fmt.Errorf("[bst] %T is unable to be traversed inorder", tree)
		}
		inner = d.Unwrap()
		w, ok = inner.(inorderWalker)
	}

	var (
		err  error
		prev int32
	)
	w.walk(func(idx int64, key, val int32) bool {
		if idx > 0 && key <= prev {
			err = fmt.Errorf("[bst] order violation at index %d, key %d after %d", idx, key, prev)
			return false
		}
		prev = key
		return true
	})
	return err
}

// inorderKeys lists all the keys in ascending order.
func inorderKeys(tree inorderWalker) []int32 {
	keys := make([]int32, 0, 16)
	tree.walk(func(idx int64, key, val int32) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
