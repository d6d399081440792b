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

// singleRoots replays a single-element witness from the deepest level
// outward, carrying the proved leaf and, when update is non-nil, a shadow
// leaf through the same transitions. A step where the climbing index equals
// the last index at its level and is even has no right sibling; the digest
// carries up unchanged and no decommitment is consumed.
func singleRoots(th TreeHasher, index, count uint32, leaf [WordSize]byte, update *[WordSize]byte, w Witness) (root, updatedRoot [WordSize]byte, err error) {
	hash := leaf
	var shadow [WordSize]byte
	if update != nil {
		shadow = *update
	}
	next := 1
	for idx, upper := index, count-1; upper > 0; idx, upper = idx>>1, upper>>1 {
		if idx == upper && idx&1 == 0 {
			continue
		}
		if next >= len(w) {
			return zeroDigest, zeroDigest, ErrInvalidProof
		}
		d := w[next]
		next++
		if idx&1 == 1 {
			hash = th.HashChildren(d, hash)
			if update != nil {
				shadow = th.HashChildren(d, shadow)
			}
		} else {
			hash = th.HashChildren(hash, d)
			if update != nil {
				shadow = th.HashChildren(shadow, d)
			}
		}
	}
	if next != len(w) {
		return zeroDigest, zeroDigest, ErrInvalidProof
	}
	return hash, shadow, nil
}

// VerifySingle reports whether witness proves that element sits at index in
// the tree of count elements committed to by root. The hasher selects the
// child ordering: with keccak256.Ordered the index parity places the carried
// digest left or right, with keccak256.Sorted the pair is canonicalized.
func VerifySingle(th TreeHasher, root [WordSize]byte, count, index uint32, element [WordSize]byte, w Witness) bool {
	n, ok := w.TreeSize()
	if !ok || n != count || n == 0 || index >= n {
		return false
	}
	if root == zeroDigest {
		return false
	}
	elementRoot, _, err := singleRoots(th, index, n, th.HashLeaf(element), nil, w)
	if err != nil {
		return false
	}
	return th.HashRoot(n, elementRoot) == root
}

// UpdateSingle rewrites the element at index to newElement and returns the
// new committed root. The witness must prove element at index against root;
// the same decommitments then recompose the rewritten tree, whose shape is
// unchanged.
func UpdateSingle(th TreeHasher, root [WordSize]byte, index uint32, element, newElement [WordSize]byte, w Witness) ([WordSize]byte, error) {
	n, ok := w.TreeSize()
	if !ok {
		return zeroDigest, ErrInvalidProof
	}
	if root == zeroDigest || n == 0 {
		return zeroDigest, ErrEmptyTree
	}
	if index >= n {
		return zeroDigest, ErrInvalidProof
	}
	shadow := th.HashLeaf(newElement)
	elementRoot, newElementRoot, err := singleRoots(th, index, n, th.HashLeaf(element), &shadow, w)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(n, elementRoot) != root {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(n, newElementRoot), nil
}
