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

// A combined witness is a multi-element witness whose proved indices reach
// the minimum combined index of the tree, so the replay passes through
// every frontier subtree. The engine snapshots those frontier roots as it
// replays, re-derives the element-root from them, and on a match feeds them
// into the append replay — one witness authorizes membership (or rewrites)
// and the append in a single pass.

// MultiAndAppend verifies that elements (strictly decreasing index order)
// are members of the tree committed to by root, appends appendElements, and
// returns the new committed root. Only defined for sorted-pair hashing.
func MultiAndAppend(th TreeHasher, root [WordSize]byte, elements, appendElements [][WordSize]byte, w Witness) ([WordSize]byte, error) {
	count, ok := w.TreeSize()
	if !ok {
		return zeroDigest, ErrInvalidProof
	}
	if root == zeroDigest || count == 0 {
		return zeroDigest, ErrEmptyTree
	}
	k := uint32(len(appendElements))
	if err := checkAppendBounds(root, count, k); err != nil {
		return zeroDigest, err
	}
	res, err := multiRoots(th, hashLeaves(th, elements), nil, w, true)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(count, res.root) != root {
		return zeroDigest, ErrInvalidProof
	}
	derivedRoot, newRoot, err := appendRoots(th, count, res.frontier, hashLeaves(th, appendElements))
	if err != nil {
		return zeroDigest, err
	}
	if derivedRoot != res.root {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(count+k, newRoot), nil
}

// MultiUpdateAndAppend rewrites the proved elements to newElements, appends
// appendElements after the rewritten tree, and returns the new committed
// root. The appended region grows out of the rewritten frontier, so the
// shadow queue supplies the decommitments for the append replay. Only
// defined for sorted-pair hashing.
func MultiUpdateAndAppend(th TreeHasher, root [WordSize]byte, elements, newElements, appendElements [][WordSize]byte, w Witness) ([WordSize]byte, error) {
	if len(elements) != len(newElements) {
		return zeroDigest, ErrLengthMismatch
	}
	count, ok := w.TreeSize()
	if !ok {
		return zeroDigest, ErrInvalidProof
	}
	if root == zeroDigest || count == 0 {
		return zeroDigest, ErrEmptyTree
	}
	k := uint32(len(appendElements))
	if err := checkAppendBounds(root, count, k); err != nil {
		return zeroDigest, err
	}
	res, err := multiRoots(th, hashLeaves(th, elements), hashLeaves(th, newElements), w, true)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(count, res.root) != root {
		return zeroDigest, ErrInvalidProof
	}
	if foldFrontier(th, res.frontier) != res.root {
		return zeroDigest, ErrInvalidProof
	}
	derivedRoot, newRoot, err := appendRoots(th, count, res.newFrontier, hashLeaves(th, appendElements))
	if err != nil {
		return zeroDigest, err
	}
	if derivedRoot != res.newRoot {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(count+k, newRoot), nil
}
