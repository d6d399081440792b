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

package proof_test

import (
	"testing"

	merkle "github.com/unluckythoughts/merkle-trees"
	"github.com/unluckythoughts/merkle-trees/keccak256"
	"github.com/unluckythoughts/merkle-trees/proof"
)

const (
	testSeed   = 0xff
	updateSeed = 0x11
	appendSeed = 0x22
)

var hashers = map[string]proof.TreeHasher{
	"ordered": keccak256.Ordered,
	"sorted":  keccak256.Sorted,
}

func buildTree(t *testing.T, th proof.TreeHasher, elements [][32]byte) *merkle.Tree {
	t.Helper()
	tree, err := merkle.NewTree(th, elements)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

// rootOf returns the committed root over elements.
func rootOf(t *testing.T, th proof.TreeHasher, elements [][32]byte) [32]byte {
	t.Helper()
	return buildTree(t, th, elements).Root()
}

// flipBit returns a copy of the witness with one bit of word i flipped.
func flipBit(w proof.Witness, i int) proof.Witness {
	out := make(proof.Witness, len(w))
	copy(out, w)
	out[i][0] ^= 0x80
	return out
}

// pick returns the elements of the sequence at the given indices, in the
// order the indices are listed.
func pick(elements [][32]byte, indices []uint32) [][32]byte {
	out := make([][32]byte, len(indices))
	for i, idx := range indices {
		out[i] = elements[idx]
	}
	return out
}
