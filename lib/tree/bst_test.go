package tree

import (
	"errors"
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	testcases := []struct {
		kind ErrorKind
		msg  string
		str  string
	}{
		{ErrEmptyTree, "[bst] empty tree", "EmptyTree"},
		{ErrDuplicateKey, "[bst] duplicate key", "DuplicateKey"},
		{ErrKeyNotFound, "[bst] key not found", "KeyNotFound"},
		{ErrorKind(0), "[bst] unknown error", "Unknown"},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.msg, tc.kind.Error())
		require.Equal(t, tc.str, tc.kind.String())
	}

	var err error = ErrKeyNotFound
	var kind ErrorKind
	require.True(t, errors.As(err, &kind))
	require.Equal(t, ErrKeyNotFound, kind)
}

func TestBST_AddOnEmpty(t *testing.T) {
	tree := &bst{}
	require.NoError(t, tree.Add(2, 1))
	require.NotNil(t, tree.root)
	require.Equal(t, int32(1), tree.root.value)
	require.True(t, tree.root.isLeaf())
}

func TestBST_EmptyContainer(t *testing.T) {
	tree := NewBST()
	for _, k := range []int32{0, 1, -1, 1 << 30} {
		_, err := tree.Get(k)
		require.ErrorIs(t, err, ErrEmptyTree)
		_, err = tree.Remove(k)
		require.ErrorIs(t, err, ErrEmptyTree)
	}
}

func TestBST_RoundTrip(t *testing.T) {
	tree := NewBST()
	require.NoError(t, tree.Add(3, 30))
	val, err := tree.Get(3)
	require.NoError(t, err)
	require.Equal(t, int32(30), val)

	_, err = tree.Get(4)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBST_DuplicateRejection(t *testing.T) {
	tree := NewBST()
	require.NoError(t, tree.Add(1, 1))
	require.NoError(t, tree.Add(5, 5))
	require.ErrorIs(t, tree.Add(1, 12), ErrDuplicateKey)
	require.ErrorIs(t, tree.Add(5, 12), ErrDuplicateKey)

	val, err := tree.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(1), val)
	val, err = tree.Get(5)
	require.NoError(t, err)
	require.Equal(t, int32(5), val)
}

func TestBST_RemoveTwoChildren(t *testing.T) {
	tree := &bst{}
	for _, p := range [][2]int32{{5, 1}, {2, 2}, {4, 4}, {3, 3}, {1, 1}} {
		require.NoError(t, tree.Add(p[0], p[1]))
	}
	/*
		      [5]                 [5]
		      /                   /
		    [2]                 [3]
		    / \      ==>        / \
		  [1] [4]             [1] [4]
		      /
		    [3]
	*/
	val, err := tree.Remove(2)
	require.NoError(t, err)
	require.Equal(t, int32(2), val)

	require.Equal(t, int32(5), tree.root.key)
	require.Equal(t, int32(3), tree.root.left.key)
	require.Equal(t, int32(3), tree.root.left.value)
	require.Equal(t, int32(1), tree.root.left.left.key)
	require.Equal(t, int32(4), tree.root.left.right.key)
	require.Nil(t, tree.root.left.right.left)
	require.NoError(t, OrderViolationValidate(tree))

	_, err = tree.Get(2)
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.Equal(t, []int32{1, 3, 4, 5}, inorderKeys(tree))
}

func TestBST_RemoveRoot(t *testing.T) {
	tree := &bst{}
	require.NoError(t, tree.Add(10, 100))
	require.NoError(t, tree.Add(5, 50))
	require.NoError(t, tree.Add(15, 150))
	require.NoError(t, tree.Add(12, 120))

	val, err := tree.Remove(10)
	require.NoError(t, err)
	require.Equal(t, int32(100), val)
	require.Equal(t, int32(12), tree.root.key)
	require.Equal(t, int32(120), tree.root.value)
	require.NoError(t, OrderViolationValidate(tree))

	val, err = tree.Remove(12)
	require.NoError(t, err)
	require.Equal(t, int32(120), val)
	require.Equal(t, int32(15), tree.root.key)

	// Only left child of the root.
	val, err = tree.Remove(15)
	require.NoError(t, err)
	require.Equal(t, int32(150), val)
	require.Equal(t, int32(5), tree.root.key)

	val, err = tree.Remove(5)
	require.NoError(t, err)
	require.Equal(t, int32(50), val)
	require.Nil(t, tree.root)

	// Reusable after collapsing into empty.
	_, err = tree.Remove(5)
	require.ErrorIs(t, err, ErrEmptyTree)
	require.NoError(t, tree.Add(5, 51))
	val, err = tree.Get(5)
	require.NoError(t, err)
	require.Equal(t, int32(51), val)
}

func TestBST_RemoveMissingIsIdempotent(t *testing.T) {
	tree := &bst{}
	for _, k := range []int32{50, 30, 70, 20, 40, 60, 80} {
		require.NoError(t, tree.Add(k, k))
	}
	expected := inorderKeys(tree)
	rootBefore := tree.root

	for i := 0; i < 5; i++ {
		for _, k := range []int32{45, 10, 90, 65} {
			_, err := tree.Remove(k)
			require.ErrorIs(t, err, ErrKeyNotFound)
		}
		require.Same(t, rootBefore, tree.root)
		require.Equal(t, expected, inorderKeys(tree))
		require.Equal(t, int32(40), tree.root.left.right.key)
		require.Equal(t, int32(60), tree.root.right.left.key)
	}
}

func TestBST_DegenerateOrder(t *testing.T) {
	tree := &bst{}
	n := int32(10_000)
	for k := int32(0); k < n; k++ {
		require.NoError(t, tree.Add(k, -k))
	}
	val, err := tree.Get(n - 1)
	require.NoError(t, err)
	require.Equal(t, -(n - 1), val)
	require.NoError(t, OrderViolationValidate(tree))

	for k := n - 1; k >= 0; k -= 2 {
		val, err = tree.Remove(k)
		require.NoError(t, err)
		require.Equal(t, -k, val)
	}
	require.NoError(t, OrderViolationValidate(tree))
	require.Len(t, inorderKeys(tree), int(n/2))
}

func TestBST_RandomOperations(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(20241019, 9527))
	for round := 0; round < 8; round++ {
		tree := NewBST()
		mirror := make(map[int32]int32, 1024)

		for i := 0; i < 2000; i++ {
			key := rng.Int32N(512) - 256
			switch op := rng.IntN(3); op {
			case 0:
				val := rng.Int32()
				err := tree.Add(key, val)
				if _, exists := mirror[key]; exists {
					require.ErrorIs(t, err, ErrDuplicateKey)
				} else {
					require.NoError(t, err)
					mirror[key] = val
				}
			case 1:
				val, err := tree.Get(key)
				if expected, exists := mirror[key]; exists {
					require.NoError(t, err)
					require.Equal(t, expected, val)
				} else if len(mirror) == 0 {
					require.ErrorIs(t, err, ErrEmptyTree)
				} else {
					require.ErrorIs(t, err, ErrKeyNotFound)
				}
			default:
				val, err := tree.Remove(key)
				if expected, exists := mirror[key]; exists {
					require.NoError(t, err)
					require.Equal(t, expected, val)
					delete(mirror, key)
				} else if len(mirror) == 0 {
					require.ErrorIs(t, err, ErrEmptyTree)
				} else {
					require.ErrorIs(t, err, ErrKeyNotFound)
				}
			}
			require.NoError(t, OrderViolationValidate(tree))
		}

		keys := make([]int32, 0, len(mirror))
		for k := range mirror {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		actual := inorderKeys(tree.(*bst))
		assert.Equal(t, len(keys), len(actual))
		if len(keys) > 0 {
			require.Equal(t, keys, actual)
		}

		remaining := make(map[int32]int32, len(mirror))
		for k, v := range mirror {
			remaining[k] = v
		}
		for k, v := range mirror {
			val, err := tree.Remove(k)
			require.NoError(t, err)
			require.Equal(t, v, val)
			delete(remaining, k)
			_, err = tree.Get(k)
			if len(remaining) == 0 {
				require.ErrorIs(t, err, ErrEmptyTree)
			} else {
				require.ErrorIs(t, err, ErrKeyNotFound)
			}
			for other, otherVal := range remaining {
				got, err := tree.Get(other)
				require.NoError(t, err)
				require.Equal(t, otherVal, got)
			}
		}
		require.Nil(t, tree.(*bst).root)
	}
}

func TestOrderViolationValidate(t *testing.T) {
	tree := &bst{
		root: &bstNode{
			key:  5,
			left: &bstNode{key: 7},
		},
	}
	require.Error(t, OrderViolationValidate(tree))

	tree.root.left.key = 3
	require.NoError(t, OrderViolationValidate(tree))

	require.NoError(t, OrderViolationValidate(&bst{}))
	require.Error(t, OrderViolationValidate(nil))
}

type passThroughBST struct {
	BST
}

func (p passThroughBST) Unwrap() BST { return p.BST }

func TestOrderViolationValidate_Decorator(t *testing.T) {
	tree := &bst{
		root: &bstNode{
			key:   5,
			right: &bstNode{key: 2},
		},
	}
	decorated := passThroughBST{BST: passThroughBST{BST: tree}}
	err := OrderViolationValidate(decorated)
	require.Error(t, err)
	require.Contains(t, err.Error(), "order violation")

	tree.root.right.key = 8
	require.NoError(t, OrderViolationValidate(decorated))

	safe := NewThreadSafeBST()
	for _, k := range []int32{4, 2, 6, 1} {
		require.NoError(t, safe.Add(k, k))
	}
	require.NoError(t, OrderViolationValidate(passThroughBST{BST: safe}))

	err = OrderViolationValidate(passThroughBST{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tree.passThroughBST is unable to be traversed")
}

func BenchmarkBST_Add(b *testing.B) {
	tree := NewBST()
	rng := randv2.New(randv2.NewPCG(1, 2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Add(rng.Int32(), int32(i))
	}
}
