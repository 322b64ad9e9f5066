package sdk

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Hash is a 32 byte keccak digest.
type Hash = common.Hash

// ErrLeafNotInTree is returned by Proof for unknown leaves.
var ErrLeafNotInTree = errors.New("merkle: leaf not in tree")

// LeafOf hashes the raw 20 address bytes, the whitelist leaf format.
// Example payload: sdk.LeafOf(alice)
func LeafOf(a Address) Hash {
	return crypto.Keccak256Hash(a.Bytes())
}

// hashPair orders the two nodes before hashing, so proofs carry no left/right flags.
func hashPair(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a[:], b[:])
}

// VerifyProof folds proof into leaf and compares against root.
func VerifyProof(proof []Hash, root, leaf Hash) bool {
	node := leaf
	for _, sib := range proof {
		node = hashPair(node, sib)
	}
	return node == root
}

// MerkleTree is a sorted-leaf, sorted-pair keccak tree. An odd node at the end of a
// layer is promoted unchanged.
type MerkleTree struct {
	layers [][]Hash
}

// NewMerkleTree builds the tree over leaves. An empty leaf set yields a zero root.
func NewMerkleTree(leaves []Hash) *MerkleTree {
	level := make([]Hash, len(leaves))
	copy(level, leaves)
	sort.Slice(level, func(i, j int) bool { return bytes.Compare(level[i][:], level[j][:]) < 0 })

	t := &MerkleTree{layers: [][]Hash{level}}
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		t.layers = append(t.layers, next)
		level = next
	}
	return t
}

// NewWhitelistTree builds the tree over LeafOf of each address.
// Example payload: sdk.NewWhitelistTree([]sdk.Address{alice, bob})
func NewWhitelistTree(addrs []Address) *MerkleTree {
	leaves := make([]Hash, len(addrs))
	for i, a := range addrs {
		leaves[i] = LeafOf(a)
	}
	return NewMerkleTree(leaves)
}

func (t *MerkleTree) Root() Hash {
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return Hash{}
	}
	return top[0]
}

// Proof lists the sibling hashes from the leaf up to (not including) the root.
func (t *MerkleTree) Proof(leaf Hash) ([]Hash, error) {
	idx := -1
	for i, l := range t.layers[0] {
		if l == leaf {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLeafNotInTree
	}
	var proof []Hash
	for _, layer := range t.layers[:len(t.layers)-1] {
		sib := idx ^ 1
		if sib < len(layer) {
			proof = append(proof, layer[sib])
		}
		idx /= 2
	}
	return proof, nil
}
