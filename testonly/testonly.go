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

// Package testonly provides deterministic test elements and a recursive
// reference implementation of the element-tree, used by the package tests
// to cross-check the iterative builder and the replay engine.
package testonly

import (
	"encoding/binary"

	"github.com/unluckythoughts/merkle-trees/compact"
	"github.com/unluckythoughts/merkle-trees/keccak256"
	"github.com/unluckythoughts/merkle-trees/proof"
)

// Elements returns n deterministic 32-byte elements: element i is the
// Keccak-256 digest of the seed byte followed by the big-endian index.
func Elements(seed byte, n int) [][32]byte {
	out := make([][32]byte, n)
	for i := range out {
		var preimage [5]byte
		preimage[0] = seed
		binary.BigEndian.PutUint32(preimage[1:], uint32(i))
		out[i] = keccak256.Sum(preimage[:])
	}
	return out
}

// RefElementRoot computes the element-root by divide and conquer: the left
// subtree takes half the padded width and is perfect, the right subtree
// recurses with the unbalanced rule. It is the independent counterpart of
// the level-by-level builder.
func RefElementRoot(th proof.TreeHasher, elements [][32]byte) [32]byte {
	if len(elements) == 0 {
		return [32]byte{}
	}
	leaves := make([][32]byte, len(elements))
	for i, e := range elements {
		leaves[i] = th.HashLeaf(e)
	}
	return refRoot(th, leaves)
}

// RefRoot computes the committed root over elements.
func RefRoot(th proof.TreeHasher, elements [][32]byte) [32]byte {
	return proof.CommittedRoot(th, uint32(len(elements)), RefElementRoot(th, elements))
}

func refRoot(th proof.TreeHasher, leaves [][32]byte) [32]byte {
	if len(leaves) == 1 {
		return leaves[0]
	}
	split := int(compact.RoundUpToPowerOf2(uint32(len(leaves)))) / 2
	return th.HashChildren(refRoot(th, leaves[:split]), refRoot(th, leaves[split:]))
}

// Replace returns a copy of elements with the values at indices replaced by
// replacements, matched by position.
func Replace(elements [][32]byte, indices []uint32, replacements [][32]byte) [][32]byte {
	out := make([][32]byte, len(elements))
	copy(out, elements)
	for i, idx := range indices {
		out[idx] = replacements[i]
	}
	return out
}
