package inputs

import (
	"github.com/pkg/errors"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

// MerkleTree commits to a list of words. Leaves are the Poseidon hash of
// their four elements and every inner node is the Poseidon hash of its two
// children; an odd node at the end of a level is paired with itself.
type MerkleTree struct {
	leaves []vm.Word
	levels [][]field.Element // levels[0] holds the leaf digests
}

// PathNode is one sibling on an authentication path
type PathNode struct {
	Digest  field.Element
	IsRight bool // the sibling is the right child
}

// NewMerkleTree builds a tree over the given leaves
func NewMerkleTree(leaves []vm.Word) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("cannot create Merkle tree with no leaves")
	}

	level := make([]field.Element, len(leaves))
	for i, w := range leaves {
		level[i] = hashLeaf(w)
	}
	levels := [][]field.Element{level}

	for len(level) > 1 {
		next := make([]field.Element, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashNode(level[i], right))
		}
		levels = append(levels, next)
		level = next
	}

	return &MerkleTree{
		leaves: append([]vm.Word(nil), leaves...),
		levels: levels,
	}, nil
}

// Root returns the tree commitment
func (t *MerkleTree) Root() field.Element {
	return t.levels[len(t.levels)-1][0]
}

// Len returns the number of leaves
func (t *MerkleTree) Len() int {
	return len(t.leaves)
}

// Leaf returns the word at index
func (t *MerkleTree) Leaf(index int) (vm.Word, error) {
	if index < 0 || index >= len(t.leaves) {
		return vm.Word{}, errors.Errorf("leaf index %d out of range [0, %d)", index, len(t.leaves))
	}
	return t.leaves[index], nil
}

// Path returns the authentication path of the leaf at index, bottom first
func (t *MerkleTree) Path(index int) ([]PathNode, error) {
	if index < 0 || index >= len(t.leaves) {
		return nil, errors.Errorf("leaf index %d out of range [0, %d)", index, len(t.leaves))
	}

	path := make([]PathNode, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling, isRight := index-1, false
		if index%2 == 0 {
			sibling, isRight = index+1, true
		}
		if sibling >= len(level) {
			sibling = index
		}
		path = append(path, PathNode{Digest: level[sibling], IsRight: isRight})
		index /= 2
	}
	return path, nil
}

// VerifyPath reports whether leaf and path hash up to root
func VerifyPath(root field.Element, leaf vm.Word, path []PathNode) bool {
	digest := hashLeaf(leaf)
	for _, node := range path {
		if node.IsRight {
			digest = hashNode(digest, node.Digest)
		} else {
			digest = hashNode(node.Digest, digest)
		}
	}
	return digest.Equal(root)
}

func hashLeaf(w vm.Word) field.Element {
	return hash.PoseidonHash(w[:])
}

func hashNode(left, right field.Element) field.Element {
	return hash.PoseidonHash([]field.Element{left, right})
}
