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

package merkle

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/unluckythoughts/merkle-trees/compact"
	"github.com/unluckythoughts/merkle-trees/proof"
)

// maxElements bounds the vector so that counts and indices stay within the
// 32-bit index arithmetic of the compact package.
const maxElements = 1 << 31

// Tree holds the full node set of an element-tree, level by level, and
// derives witnesses for every proof variant. It is the builder counterpart
// of the proof package: each ProveX output replays to the same roots the
// tree reports.
type Tree struct {
	th    TreeHasher
	count uint32
	// levels[0] holds the leaf digests; each higher level halves, with an
	// odd last node carried up unchanged.
	levels [][][DigestSize]byte
}

// NewTree builds the element-tree over elements using the given hasher.
func NewTree(th TreeHasher, elements [][DigestSize]byte) (*Tree, error) {
	if len(elements) > maxElements {
		return nil, fmt.Errorf("merkle: %d elements exceeds the maximum of %d", len(elements), maxElements)
	}
	t := &Tree{th: th, count: uint32(len(elements))}
	if t.count == 0 {
		return t, nil
	}
	level := make([][DigestSize]byte, len(elements))
	for i, e := range elements {
		level[i] = th.HashLeaf(e)
	}
	t.levels = append(t.levels, level)
	for len(level) > 1 {
		next := make([][DigestSize]byte, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next[i/2] = level[i]
			} else {
				next[i/2] = t.th.HashChildren(level[i], level[i+1])
			}
		}
		t.levels = append(t.levels, next)
		level = next
	}
	return t, nil
}

// Count returns the number of elements in the vector.
func (t *Tree) Count() uint32 {
	return t.count
}

// Depth returns the number of levels between the leaves and the root.
func (t *Tree) Depth() int {
	return compact.Depth(t.count)
}

// ElementRoot returns the root of the element-tree, or the zero digest for
// the empty vector.
func (t *Tree) ElementRoot() [DigestSize]byte {
	if t.count == 0 {
		return [DigestSize]byte{}
	}
	return t.levels[len(t.levels)-1][0]
}

// Root returns the committed root, binding the element count to the
// element-tree root.
func (t *Tree) Root() [DigestSize]byte {
	return proof.CommittedRoot(t.th, t.count, t.ElementRoot())
}

// MinimumCombinedIndex returns the smallest index that a combined
// membership-plus-append witness over this tree must include.
func (t *Tree) MinimumCombinedIndex() uint32 {
	return compact.MinimumCombinedIndex(t.count)
}

// ProveSingle derives the witness proving membership of the element at
// index: the sibling digests along its path, deepest first, skipping the
// levels where the path node has no right sibling.
func (t *Tree) ProveSingle(index uint32) (Witness, error) {
	if index >= t.count {
		return nil, fmt.Errorf("merkle: index %d out of range for %d elements", index, t.count)
	}
	w := Witness{proof.CountWord(t.count)}
	idx := index
	for _, level := range t.levels[:len(t.levels)-1] {
		if last := uint32(len(level) - 1); idx != last || idx&1 == 1 {
			w = append(w, level[idx^1])
		}
		idx >>= 1
	}
	return w, nil
}

// ProveMulti derives the witness proving membership of the elements at
// indices, which must be strictly decreasing. The replay queue is simulated
// over node positions: each step either merges the front node with its
// sibling (from the queue or from a decommitment) or carries it up a level,
// and the flags and skips bitmaps record those decisions, one bit per step.
func (t *Tree) ProveMulti(indices []uint32) (Witness, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("merkle: no indices to prove")
	}
	type node struct {
		level int
		pos   uint32
	}
	queue := make([]node, 0, len(indices))
	for i, idx := range indices {
		if idx >= t.count {
			return nil, fmt.Errorf("merkle: index %d out of range for %d elements", idx, t.count)
		}
		if i > 0 && idx >= indices[i-1] {
			return nil, fmt.Errorf("merkle: indices must be strictly decreasing, got %d after %d", idx, indices[i-1])
		}
		queue = append(queue, node{0, idx})
	}

	var (
		flags         = new(uint256.Int)
		skips         = new(uint256.Int)
		one           = uint256.NewInt(1)
		mark          = new(uint256.Int)
		decommitments [][DigestSize]byte
	)
	for step := uint(0); ; step++ {
		if step == 256 {
			return nil, fmt.Errorf("merkle: proof for %d indices in %d elements exceeds the 256-step witness capacity", len(indices), t.count)
		}
		nd := queue[0]
		queue = queue[1:]
		level := t.levels[nd.level]
		if len(level) == 1 {
			flags.Or(flags, mark.Lsh(one, step))
			skips.Or(skips, mark.Lsh(one, step))
			break
		}
		last := uint32(len(level) - 1)
		switch {
		case nd.pos == last && nd.pos&1 == 0:
			skips.Or(skips, mark.Lsh(one, step))
		case nd.pos&1 == 1 && len(queue) > 0 && queue[0] == (node{nd.level, nd.pos - 1}):
			queue = queue[1:]
			flags.Or(flags, mark.Lsh(one, step))
		default:
			decommitments = append(decommitments, level[nd.pos^1])
		}
		queue = append(queue, node{nd.level + 1, nd.pos >> 1})
	}

	w := Witness{proof.CountWord(t.count), flags.Bytes32(), skips.Bytes32()}
	return append(w, decommitments...), nil
}

// ProveAppend derives the witness for appending to the vector: the roots of
// the perfect subtrees on the right frontier, largest first. The empty
// vector's witness is the count word alone.
func (t *Tree) ProveAppend() Witness {
	w := Witness{proof.CountWord(t.count)}
	for level := len(t.levels) - 1; level >= 0; level-- {
		if t.count>>level&1 == 1 {
			w = append(w, t.levels[level][t.count>>level-1])
		}
	}
	return w
}

// ProveCombined derives a witness that both proves membership of the
// elements at indices and authorizes an append. It is a multi-element
// witness whose index set must reach the minimum combined index, so that
// the replay can recover every frontier root.
func (t *Tree) ProveCombined(indices []uint32) (Witness, error) {
	if min := t.MinimumCombinedIndex(); len(indices) == 0 || indices[0] < min {
		return nil, fmt.Errorf("merkle: combined proof requires an index of at least %d", min)
	}
	return t.ProveMulti(indices)
}
