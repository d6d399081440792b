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

// proofgen writes JSON test vectors for the witness formats: committed
// roots and single, multi, and append witnesses over a sweep of tree sizes,
// for cross-implementation verifier testing.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/unluckythoughts/merkle-trees/compact"
	"github.com/unluckythoughts/merkle-trees/keccak256"
	"github.com/unluckythoughts/merkle-trees/testonly"

	merkle "github.com/unluckythoughts/merkle-trees"
)

const elementSeed = 0xff

type treeVector struct {
	Size        uint32 `json:"size"`
	Mode        string `json:"mode"`
	ElementRoot string `json:"elementRoot"`
	Root        string `json:"root"`
	Depth       int    `json:"depth"`

	SingleProofs []singleVector `json:"singleProofs"`
	MultiProofs  []multiVector  `json:"multiProofs,omitempty"`
	AppendProof  []string       `json:"appendProof"`
}

type singleVector struct {
	Index   uint32   `json:"index"`
	Witness []string `json:"witness"`
}

type multiVector struct {
	Indices []uint32 `json:"indices"`
	Witness []string `json:"witness"`
}

func encodeWitness(w merkle.Witness) []string {
	out := make([]string, len(w))
	for i, word := range w {
		out[i] = hex.EncodeToString(word[:])
	}
	return out
}

// sampleIndices picks a descending index set that always includes the
// minimum combined index, so every multi vector doubles as a combined one.
func sampleIndices(size uint32) []uint32 {
	indices := []uint32{size - 1}
	if min := compact.MinimumCombinedIndex(size); min < size-1 {
		indices = append(indices, min)
	}
	if size > 4 {
		if mid := size / 2; mid != size-1 && mid != compact.MinimumCombinedIndex(size) {
			indices = append(indices, mid)
		}
	}
	// Keep strictly decreasing order.
	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && indices[j] >= indices[j-1]; j-- {
			indices[j], indices[j-1] = indices[j-1], indices[j]
		}
	}
	return indices
}

func buildVector(mode string, th merkle.TreeHasher, size uint32, multi bool) (treeVector, error) {
	elements := testonly.Elements(elementSeed, int(size))
	tree, err := merkle.NewTree(th, elements)
	if err != nil {
		return treeVector{}, err
	}
	elementRoot := tree.ElementRoot()
	root := tree.Root()
	v := treeVector{
		Size:        size,
		Mode:        mode,
		ElementRoot: hex.EncodeToString(elementRoot[:]),
		Root:        hex.EncodeToString(root[:]),
		Depth:       tree.Depth(),
		AppendProof: encodeWitness(tree.ProveAppend()),
	}
	for _, index := range []uint32{0, size / 2, size - 1} {
		w, err := tree.ProveSingle(index)
		if err != nil {
			return treeVector{}, err
		}
		v.SingleProofs = append(v.SingleProofs, singleVector{Index: index, Witness: encodeWitness(w)})
	}
	if multi {
		indices := sampleIndices(size)
		w, err := tree.ProveMulti(indices)
		if err != nil {
			return treeVector{}, err
		}
		v.MultiProofs = append(v.MultiProofs, multiVector{Indices: indices, Witness: encodeWitness(w)})
	}
	return v, nil
}

func writeVectors(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}
	sizes := []uint32{1, 2, 3, 4, 5, 7, 8, 9, 12, 16, 23, 48, 100}
	for _, mode := range []string{"ordered", "sorted"} {
		th := merkle.TreeHasher(keccak256.Ordered)
		if mode == "sorted" {
			th = keccak256.Sorted
		}
		var vectors []treeVector
		for _, size := range sizes {
			// Boolean-encoded multi witnesses only exist in sorted mode.
			v, err := buildVector(mode, th, size, mode == "sorted")
			if err != nil {
				return fmt.Errorf("size %d: %v", size, err)
			}
			vectors = append(vectors, v)
		}
		data, err := json.MarshalIndent(vectors, "", "  ")
		if err != nil {
			return err
		}
		name := filepath.Join(directory, mode+".json")
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %v", name, err)
		}
	}
	return nil
}

func main() {
	if err := writeVectors("testdata/vectors"); err != nil {
		log.Fatal(err)
	}
}
