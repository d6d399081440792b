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
	"errors"
	"testing"

	"github.com/unluckythoughts/merkle-trees/proof"
	"github.com/unluckythoughts/merkle-trees/testonly"
)

func TestAppendOneRoundTrip(t *testing.T) {
	for name, th := range hashers {
		t.Run(name, func(t *testing.T) {
			for n := 0; n <= 32; n++ {
				elements := testonly.Elements(testSeed, n)
				appended := testonly.Elements(appendSeed, 1)
				tree := buildTree(t, th, elements)
				got, err := proof.AppendOne(th, tree.Root(), appended[0], tree.ProveAppend())
				if err != nil {
					t.Fatalf("size %d: AppendOne: %v", n, err)
				}
				want := rootOf(t, th, append(append([][32]byte{}, elements...), appended...))
				if got != want {
					t.Errorf("size %d: appended root %x, want %x", n, got, want)
				}
			}
		})
	}
}

func TestAppendManyRoundTrip(t *testing.T) {
	for name, th := range hashers {
		t.Run(name, func(t *testing.T) {
			for n := 0; n <= 32; n++ {
				for k := 1; k <= 6; k++ {
					elements := testonly.Elements(testSeed, n)
					appended := testonly.Elements(appendSeed, k)
					tree := buildTree(t, th, elements)
					got, err := proof.AppendMany(th, tree.Root(), appended, tree.ProveAppend())
					if err != nil {
						t.Fatalf("size %d append %d: AppendMany: %v", n, k, err)
					}
					want := rootOf(t, th, append(append([][32]byte{}, elements...), appended...))
					if got != want {
						t.Errorf("size %d append %d: root %x, want %x", n, k, got, want)
					}
				}
			}
		})
	}
}

func TestAppendOneEmptyTreeLaw(t *testing.T) {
	for name, th := range hashers {
		t.Run(name, func(t *testing.T) {
			element := testonly.Elements(appendSeed, 1)[0]
			var zero [32]byte
			got, err := proof.AppendOne(th, zero, element, proof.Witness{zero})
			if err != nil {
				t.Fatalf("AppendOne: %v", err)
			}
			if want := th.HashRoot(1, th.HashLeaf(element)); got != want {
				t.Errorf("append into the empty tree: %x, want H(u256(1) ‖ leaf) = %x", got, want)
			}
		})
	}
}

func TestAppendInvalidTree(t *testing.T) {
	th := hashers["sorted"]
	elements := testonly.Elements(testSeed, 5)
	appended := testonly.Elements(appendSeed, 2)
	tree := buildTree(t, th, elements)
	w := tree.ProveAppend()
	var zero [32]byte

	// Root and count disagreeing about emptiness is rejected outright.
	if _, err := proof.AppendOne(th, zero, appended[0], w); !errors.Is(err, proof.ErrInvalidTree) {
		t.Errorf("zero root with count 5: %v, want ErrInvalidTree", err)
	}
	if _, err := proof.AppendMany(th, tree.Root(), appended, proof.Witness{zero}); !errors.Is(err, proof.ErrInvalidTree) {
		t.Errorf("non-zero root with count 0: %v, want ErrInvalidTree", err)
	}
	if _, err := proof.AppendMany(th, tree.Root(), nil, w); !errors.Is(err, proof.ErrInvalidProof) {
		t.Errorf("no elements to append: %v, want ErrInvalidProof", err)
	}
}

func TestAppendRejectsCorruptWitness(t *testing.T) {
	th := hashers["sorted"]
	elements := testonly.Elements(testSeed, 13) // 3 frontier roots
	appended := testonly.Elements(appendSeed, 3)
	tree := buildTree(t, th, elements)
	root := tree.Root()
	w := tree.ProveAppend()

	for i := 1; i < len(w); i++ {
		if _, err := proof.AppendOne(th, root, appended[0], flipBit(w, i)); !errors.Is(err, proof.ErrInvalidProof) {
			t.Errorf("AppendOne with flipped word %d: %v, want ErrInvalidProof", i, err)
		}
		if _, err := proof.AppendMany(th, root, appended, flipBit(w, i)); !errors.Is(err, proof.ErrInvalidProof) {
			t.Errorf("AppendMany with flipped word %d: %v, want ErrInvalidProof", i, err)
		}
	}
	if _, err := proof.AppendMany(th, root, appended, w[:len(w)-1]); !errors.Is(err, proof.ErrInvalidProof) {
		t.Errorf("truncated witness: %v, want ErrInvalidProof", err)
	}
	if _, err := proof.AppendMany(th, root, appended, append(append(proof.Witness{}, w...), [32]byte{})); !errors.Is(err, proof.ErrInvalidProof) {
		t.Errorf("trailing garbage: %v, want ErrInvalidProof", err)
	}
}

func TestAppendGrowsMonotonically(t *testing.T) {
	// Appending one element at a time from the empty tree walks the same
	// roots as building each prefix from scratch.
	th := hashers["ordered"]
	elements := testonly.Elements(testSeed, 20)
	var root [32]byte
	for i, e := range elements {
		tree := buildTree(t, th, elements[:i])
		got, err := proof.AppendOne(th, root, e, tree.ProveAppend())
		if err != nil {
			t.Fatalf("step %d: AppendOne: %v", i, err)
		}
		want := rootOf(t, th, elements[:i+1])
		if got != want {
			t.Fatalf("step %d: root %x, want %x", i, got, want)
		}
		root = got
	}
}
