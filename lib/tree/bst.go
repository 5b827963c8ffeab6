package tree

var _ BST = (*bst)(nil)

type bst struct {
	root *bstNode
}

func (tree *bst) isEmpty() bool {
	return tree.root == nil
}

func (tree *bst) Add(key, val int32) error {
	if /* empty */ tree.isEmpty() {
		tree.root = newBSTNode(key, val)
		return nil
	}
	return tree.root.insert(key, val)
}

func (tree *bst) Get(key int32) (int32, error) {
	if tree.isEmpty() {
		return 0, ErrEmptyTree
	}
	return tree.root.lookup(key)
}

// Remove restructures the root itself when it holds key, since the root
// has no parent to relink the replacement. Every other removal is
// delegated to the root's subtree.
func (tree *bst) Remove(key int32) (int32, error) {
	if tree.isEmpty() {
		return 0, ErrEmptyTree
	}

	if key == tree.root.key {
		val := tree.root.value
		tree.root = tree.root.replacement()
		return val, nil
	}

	root, val, err := tree.root.removeFromSubtree(key)
	if err != nil {
		return 0, err
	}
	tree.root = root
	return val, nil
}

// Inorder traversal without recursion, so a degenerate tree
// does not grow the goroutine stack with its height.
func (tree *bst) walk(action func(idx int64, key, val int32) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*bstNode, 0, 16)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.key, aux.value) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// NewBST returns an empty, non thread-safe container.
func NewBST() BST {
	return &bst{}
}
