package tree

// bstNode exclusively owns its left and right subtrees.
// There are no parent links, restructuring hands the
// replacement subtree back to the caller instead.
type bstNode struct {
	left  *bstNode
	right *bstNode
	key   int32
	value int32
}

func newBSTNode(key, val int32) *bstNode {
	return &bstNode{
		key:   key,
		value: val,
	}
}

func (node *bstNode) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *bstNode) minimum() *bstNode {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// insert links exactly one new leaf into the subtree rooted at node.
func (node *bstNode) insert(key, val int32) error {
	for aux := node; ; {
		switch {
		case /* less */ key < aux.key:
			if aux.left == nil {
				aux.left = newBSTNode(key, val)
				return nil
			}
			aux = aux.left
		case /* greater */ key > aux.key:
			if aux.right == nil {
				aux.right = newBSTNode(key, val)
				return nil
			}
			aux = aux.right
		default:
			return ErrDuplicateKey
		}
	}
}

func (node *bstNode) lookup(key int32) (int32, error) {
	for aux := node; aux != nil; {
		switch {
		case key < aux.key:
			aux = aux.left
		case key > aux.key:
			aux = aux.right
		default:
			return aux.value, nil
		}
	}
	return 0, ErrKeyNotFound
}

// removeFromSubtree consumes the subtree rooted at node and returns the
// subtree that should replace it in the parent, together with the value
// of the removed entry.
// The descent only follows child links and mutates nothing until the
// target is found, so a missing key leaves the subtree as it was.
func (node *bstNode) removeFromSubtree(key int32) (*bstNode, int32, error) {
	subRoot := node
	link := &subRoot
	for aux := *link; aux != nil; aux = *link {
		switch {
		case key < aux.key:
			link = &aux.left
		case key > aux.key:
			link = &aux.right
		default:
			val := aux.value
			*link = aux.replacement()
			return subRoot, val, nil
		}
	}
	return node, 0, ErrKeyNotFound
}

/*
replacement restructures node for its own removal and returns the
subtree to be linked where node used to be.

r1: No children, the position becomes empty.

r2: Only one child, it is linked directly. All of its keys are already
on the correct side of every ancestor.

	  [N]          [L]
	  /     ==>    / \
	[L]
	/ \

r3: Two children. The in-order successor S is the leftmost node of the
right subtree. N takes over S's key and value, keeps both subtrees, and
S's old position is removed from the right subtree. S has no left child,
so that removal always ends in r1 or r2.

	  [N]              [S]
	  / \              / \
	[L] [R]    ==>   [L] [R]
	    /                /
	  [S]              [X]
	    \
	    [X]
*/
func (node *bstNode) replacement() *bstNode {
	switch {
	case /* r1 */ node.isLeaf():
		return nil
	case /* r2 */ node.right == nil:
		l := node.left
		node.left = nil
		return l
	case /* r2 */ node.left == nil:
		r := node.right
		node.right = nil
		return r
	default:
	}

	/* r3 */
	succ := node.right.minimum()
	if succ.left != nil {
		// impossible run to here
		panic( /* debug assertion */ "[bst] successor has a left child, violate (r3)")
	}
	succKey, succVal := succ.key, succ.value
	right, _, err := node.right.removeFromSubtree(succKey)
	if err != nil {
		// impossible run to here
		panic( /* debug assertion */ "[bst] successor removal failed, violate (r3)")
	}
	node.right = right
	node.key, node.value = succKey, succVal
	return node
}
