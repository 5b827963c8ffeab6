package tree

// ErrorKind is the closed set of failures a BST reports.
// The values are comparable, so callers may branch on them by
// errors.Is or by plain equality.
type ErrorKind uint8

const (
	_ ErrorKind = iota
	// ErrEmptyTree reports an operation that requires an entry on an empty container.
	ErrEmptyTree
	// ErrDuplicateKey reports an insert at an occupied key. The existing entry is untouched.
	ErrDuplicateKey
	// ErrKeyNotFound reports a lookup or removal of a key absent from a non-empty container.
	ErrKeyNotFound
)

func (kind ErrorKind) Error() string {
	switch kind {
	case ErrEmptyTree:
		return "[bst] empty tree"
	case ErrDuplicateKey:
		return "[bst] duplicate key"
	case ErrKeyNotFound:
		return "[bst] key not found"
	default:
	}
	return "[bst] unknown error"
}

func (kind ErrorKind) String() string {
	switch kind {
	case ErrEmptyTree:
		return "EmptyTree"
	case ErrDuplicateKey:
		return "DuplicateKey"
	case ErrKeyNotFound:
		return "KeyNotFound"
	default:
	}
	return "Unknown"
}

// BST is an unbalanced binary search tree over int32 keys
// bound to int32 values.
// A failed operation never mutates the tree.
type BST interface {
	// Add binds val to key. An occupied key is rejected with
	// ErrDuplicateKey and never overwritten.
	Add(key, val int32) error
	// Get returns the value bound to key.
	Get(key int32) (int32, error)
	// Remove deletes key and returns the value it was bound to.
	Remove(key int32) (int32, error)
}
