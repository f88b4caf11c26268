package inputs

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

func word(base uint64) vm.Word {
	return vm.Word{field.New(base), field.New(base + 1), field.New(base + 2), field.New(base + 3)}
}

// TestMerklePaths tests that every leaf authenticates against the root
func TestMerklePaths(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8} {
		leaves := make([]vm.Word, n)
		for i := range leaves {
			leaves[i] = word(uint64(4 * i))
		}
		tree, err := NewMerkleTree(leaves)
		if err != nil {
			t.Fatalf("NewMerkleTree(%d leaves) failed: %v", n, err)
		}

		for i := range leaves {
			path, err := tree.Path(i)
			if err != nil {
				t.Fatalf("Path(%d) failed: %v", i, err)
			}
			if !VerifyPath(tree.Root(), leaves[i], path) {
				t.Errorf("%d leaves: path of leaf %d does not verify", n, i)
			}
		}
	}
}

// TestMerkleRejectsTampering tests verification failures
func TestMerkleRejectsTampering(t *testing.T) {
	leaves := []vm.Word{word(0), word(4), word(8), word(12)}
	tree, _ := NewMerkleTree(leaves)
	path, _ := tree.Path(2)

	if VerifyPath(tree.Root(), word(100), path) {
		t.Error("a different leaf should not verify")
	}
	if VerifyPath(tree.Root(), leaves[1], path) {
		t.Error("a leaf should not verify with another leaf's path")
	}

	other, _ := NewMerkleTree([]vm.Word{word(0), word(4), word(8), word(16)})
	if other.Root().Equal(tree.Root()) {
		t.Error("changing a leaf should change the root")
	}

	if _, err := tree.Path(4); err == nil {
		t.Error("Path out of range should fail")
	}
	if _, err := tree.Leaf(-1); err == nil {
		t.Error("Leaf out of range should fail")
	}
}
