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

// Package merkle maintains an authenticated append-only vector of 32-byte
// elements as an unbalanced Merkle tree, and derives the compact witnesses
// that the proof package verifies and transforms.
//
// The committed root binds the element count to the element-tree root:
// H(u256(count) ‖ elementRoot), with the empty vector committing to the
// zero digest. Internal nodes whose right child is missing equal their sole
// left child, which keeps append witnesses to one digest per set bit of the
// element count.
package merkle

import (
	"github.com/unluckythoughts/merkle-trees/proof"
)

// DigestSize is the width of every element and digest, in bytes.
const DigestSize = proof.WordSize

// TreeHasher computes the digests of an element-tree. See the keccak256
// package for the ordered and sorted-pair implementations.
type TreeHasher = proof.TreeHasher

// Witness is serialized proof material, consumed by the proof package.
type Witness = proof.Witness
