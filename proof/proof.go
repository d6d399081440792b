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

// Package proof verifies and transforms the compact witnesses of an
// authenticated append-only Merkle vector: membership of one or many
// elements, element rewrites, appends, and combined membership-plus-append
// operations, each against a committed root that binds the element count to
// the element-tree root.
//
// Every operation is a pure function of its inputs. A witness is replayed
// with a small ring queue of partial digests; the committed root is then
// recomposed as H(u256(count) ‖ elementRoot) and compared with, or returned
// to, the caller.
package proof

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

// WordSize is the width of a witness word and of every digest, in bytes.
const WordSize = 32

// TreeHasher computes the digests of an element-tree. Implementations decide
// whether children combine positionally or as a sorted pair; see the
// keccak256 package for the two concrete hashers.
type TreeHasher interface {
	// HashLeaf returns the leaf digest of an element.
	HashLeaf(element [WordSize]byte) [WordSize]byte
	// HashChildren returns the digest of a node from its children.
	HashChildren(left, right [WordSize]byte) [WordSize]byte
	// HashRoot binds the element count to the element-tree root.
	HashRoot(count uint32, elementRoot [WordSize]byte) [WordSize]byte
}

// Witness is serialized proof material: a dense sequence of 32-byte words.
// Word 0 always holds the big-endian element count of the tree the witness
// was derived from. For multi-element witnesses, words 1 and 2 hold the
// flags and skips bitmaps (bit 0 governs replay step 0); the remaining
// words are decommitment digests in the order the replay consumes them.
type Witness [][WordSize]byte

var (
	// ErrEmptyTree is returned when an operation requires a non-empty tree.
	ErrEmptyTree = errors.New("proof: tree is empty")
	// ErrInvalidTree is returned when the root and the witness element count
	// disagree about whether the tree is empty.
	ErrInvalidTree = errors.New("proof: root and element count disagree about emptiness")
	// ErrLengthMismatch is returned when parallel element lists differ in length.
	ErrLengthMismatch = errors.New("proof: parallel element lists differ in length")
	// ErrInvalidProof is returned when a witness does not reconstruct the
	// claimed root, or is internally inconsistent.
	ErrInvalidProof = errors.New("proof: witness does not reconstruct the claimed root")
)

var zeroDigest [WordSize]byte

// CountWord returns the 32-byte big-endian encoding of count.
func CountWord(count uint32) [WordSize]byte {
	return uint256.NewInt(uint64(count)).Bytes32()
}

// TreeSize returns the element count committed in word 0. ok is false when
// the witness is empty or the word does not fit a 32-bit count.
func (w Witness) TreeSize() (count uint32, ok bool) {
	if len(w) == 0 {
		return 0, false
	}
	n := new(uint256.Int).SetBytes(w[0][:])
	if !n.IsUint64() || n.Uint64() > math.MaxUint32 {
		return 0, false
	}
	return uint32(n.Uint64()), true
}

// bitmaps returns the flags and skips words of a multi-element witness.
func (w Witness) bitmaps() (flags, skips *uint256.Int, ok bool) {
	if len(w) < 3 {
		return nil, nil, false
	}
	return new(uint256.Int).SetBytes(w[1][:]), new(uint256.Int).SetBytes(w[2][:]), true
}

// CommittedRoot recomposes the committed root for a tree of count elements
// with the given element-tree root. The empty tree commits to the zero
// digest.
func CommittedRoot(th TreeHasher, count uint32, elementRoot [WordSize]byte) [WordSize]byte {
	if count == 0 {
		return zeroDigest
	}
	return th.HashRoot(count, elementRoot)
}

func hashLeaves(th TreeHasher, elements [][WordSize]byte) [][WordSize]byte {
	leaves := make([][WordSize]byte, len(elements))
	for i, e := range elements {
		leaves[i] = th.HashLeaf(e)
	}
	return leaves
}
