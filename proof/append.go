// Copyright 2023 The merkle-trees authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package proof

import "math"

// An append witness carries the roots of the perfect subtrees on the right
// frontier of the tree, largest first: one decommitment per set bit of the
// element count. The old element-root folds out of them alone; the new one
// grows level by level alongside the appended leaves.

// foldFrontier recomposes the element-root from frontier roots, largest
// subtree first, by folding inward with the existing tree on the left.
func foldFrontier(th TreeHasher, frontier [][WordSize]byte) [WordSize]byte {
	hash := frontier[len(frontier)-1]
	for i := len(frontier) - 2; i >= 0; i-- {
		hash = th.HashChildren(frontier[i], hash)
	}
	return hash
}

// appendOneRoots reconstructs the old element-root from the frontier
// decommitments and derives the root after appending one leaf, consuming
// one decommitment per set bit of count, deepest first.
func appendOneRoots(th TreeHasher, count uint32, decommitments [][WordSize]byte, leaf [WordSize]byte) (oldRoot, newRoot [WordSize]byte, err error) {
	next := len(decommitments)
	newRoot = leaf
	first := true
	for n := count; n > 0; n >>= 1 {
		if n&1 == 0 {
			continue
		}
		if next == 0 {
			return zeroDigest, zeroDigest, ErrInvalidProof
		}
		next--
		d := decommitments[next]
		newRoot = th.HashChildren(d, newRoot)
		if first {
			oldRoot = d
			first = false
		} else {
			oldRoot = th.HashChildren(d, oldRoot)
		}
	}
	if next != 0 {
		return zeroDigest, zeroDigest, ErrInvalidProof
	}
	return oldRoot, newRoot, nil
}

// appendRoots reconstructs the old element-root and derives the root of the
// tree grown from count to count+len(leaves) elements. It sweeps the levels
// of the virtual grown tree: the pending buffer holds the new nodes at
// positions [offset, upper] of the current level, and whenever offset is
// odd the leftmost pending node pairs with the next frontier decommitment,
// which simultaneously folds into the old root, so both advance along the
// frontier in lockstep.
func appendRoots(th TreeHasher, count uint32, decommitments, leaves [][WordSize]byte) (oldRoot, newRoot [WordSize]byte, err error) {
	k := uint32(len(leaves))
	pending := make([][WordSize]byte, k)
	copy(pending, leaves)
	next := len(decommitments)
	first := true
	for offset, upper := count, count+k-1; upper > 0; offset, upper = offset>>1, upper>>1 {
		write := uint32(0)
		p := offset
		if p&1 == 1 {
			if next == 0 {
				return zeroDigest, zeroDigest, ErrInvalidProof
			}
			next--
			d := decommitments[next]
			if first {
				oldRoot = d
				first = false
			} else {
				oldRoot = th.HashChildren(d, oldRoot)
			}
			pending[0] = th.HashChildren(d, pending[0])
			write = 1
			p++
		}
		for ; p <= upper; p += 2 {
			if p == upper {
				pending[write] = pending[p-offset]
			} else {
				pending[write] = th.HashChildren(pending[p-offset], pending[p-offset+1])
			}
			write++
		}
	}
	if next != 0 {
		return zeroDigest, zeroDigest, ErrInvalidProof
	}
	return oldRoot, pending[0], nil
}

// checkAppendBounds gates an append of k elements onto a tree whose witness
// claims count elements under the given root.
func checkAppendBounds(root [WordSize]byte, count, k uint32) error {
	if (root == zeroDigest) != (count == 0) {
		return ErrInvalidTree
	}
	if k == 0 || count > math.MaxUint32-k {
		return ErrInvalidProof
	}
	return nil
}

// AppendOne appends element to the tree committed to by root and returns
// the new committed root. Appending to the empty tree ignores the witness
// beyond its zero count word.
func AppendOne(th TreeHasher, root [WordSize]byte, element [WordSize]byte, w Witness) ([WordSize]byte, error) {
	count, ok := w.TreeSize()
	if !ok {
		return zeroDigest, ErrInvalidProof
	}
	if err := checkAppendBounds(root, count, 1); err != nil {
		return zeroDigest, err
	}
	leaf := th.HashLeaf(element)
	if count == 0 {
		return th.HashRoot(1, leaf), nil
	}
	oldRoot, newRoot, err := appendOneRoots(th, count, w[1:], leaf)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(count, oldRoot) != root {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(count+1, newRoot), nil
}

// AppendMany appends elements, in order, to the tree committed to by root
// and returns the new committed root. elements must be non-empty.
func AppendMany(th TreeHasher, root [WordSize]byte, elements [][WordSize]byte, w Witness) ([WordSize]byte, error) {
	count, ok := w.TreeSize()
	if !ok {
		return zeroDigest, ErrInvalidProof
	}
	k := uint32(len(elements))
	if err := checkAppendBounds(root, count, k); err != nil {
		return zeroDigest, err
	}
	leaves := hashLeaves(th, elements)
	if count == 0 {
		_, newRoot, err := appendRoots(th, 0, nil, leaves)
		if err != nil {
			return zeroDigest, err
		}
		return th.HashRoot(k, newRoot), nil
	}
	oldRoot, newRoot, err := appendRoots(th, count, w[1:], leaves)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(count, oldRoot) != root {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(count+k, newRoot), nil
}
