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

// Package keccak256 provides the Keccak-256 tree hashers used by the
// append-only Merkle vector.
//
// Two hashers are exposed. Ordered combines children positionally, as
// H(left ‖ right). Sorted combines them as H(min ‖ max), comparing the two
// digests as big-endian unsigned integers; discarding the sibling order is
// what allows multi-element witnesses to describe each step with a single
// bit. Both hashers derive leaves as H(0^32 ‖ element), with the all-zero
// prefix acting as the domain separator between raw elements and internal
// node digests, and both bind the element count into the committed root as
// H(u256(count) ‖ elementRoot).
package keccak256

import (
	"bytes"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Size is the digest width in bytes.
const Size = 32

var (
	// Ordered is the position-preserving hasher.
	Ordered = orderedHasher{}
	// Sorted is the sorted-pair hasher.
	Sorted = sortedHasher{}
)

var leafPrefix [Size]byte

// Sum returns the Keccak-256 digest of the concatenation of data.
func Sum(data ...[]byte) [Size]byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var out [Size]byte
	d.Sum(out[:0])
	return out
}

type treeHasher struct{}

func (treeHasher) HashLeaf(element [Size]byte) [Size]byte {
	return Sum(leafPrefix[:], element[:])
}

func (treeHasher) HashRoot(count uint32, elementRoot [Size]byte) [Size]byte {
	word := uint256.NewInt(uint64(count)).Bytes32()
	return Sum(word[:], elementRoot[:])
}

type orderedHasher struct{ treeHasher }

func (orderedHasher) HashChildren(left, right [Size]byte) [Size]byte {
	return Sum(left[:], right[:])
}

type sortedHasher struct{ treeHasher }

func (sortedHasher) HashChildren(a, b [Size]byte) [Size]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return Sum(a[:], b[:])
}
