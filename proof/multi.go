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

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// Multi-element witnesses encode each replay step as one bit of the flags
// word and one bit of the skips word:
//
//	skip=0 flag=0  combine the front of the queue with the next decommitment
//	skip=0 flag=1  combine the two front queue entries with each other
//	skip=1 flag=0  carry the front of the queue up one level unchanged
//	skip=1 flag=1  terminate; the last written entry is the element-root
//
// The queue holds the leaves of the proved elements in the order supplied,
// strictly decreasing by index, and is a ring of fixed capacity k: a full
// loop around it corresponds to climbing one tree level. Because a step
// carries no left/right position bit, this encoding is only defined for
// sorted-pair hashing.

// multiResult is the outcome of one multi-element replay.
type multiResult struct {
	root    [WordSize]byte
	newRoot [WordSize]byte
	// frontier and newFrontier hold the derived append decommitments,
	// largest subtree first, when the replay was asked to derive them.
	frontier    [][WordSize]byte
	newFrontier [][WordSize]byte
}

// multiRoots replays a multi-element witness over the given leaves. When
// newLeaves is non-nil a shadow queue of rewritten leaves follows the same
// transitions, yielding the element-root of the rewritten tree. When
// deriveFrontier is set, the replay additionally snapshots the right
// frontier of the tree as it passes through the queue, producing the
// decommitments an append replay needs; this requires the proved indices to
// satisfy the minimum combined index precondition, and fails with
// ErrInvalidProof when they do not.
func multiRoots(th TreeHasher, leaves, newLeaves [][WordSize]byte, w Witness, deriveFrontier bool) (multiResult, error) {
	var res multiResult
	k := len(leaves)
	if k == 0 {
		return res, ErrInvalidProof
	}
	count, ok := w.TreeSize()
	if !ok || count == 0 {
		return res, ErrInvalidProof
	}
	flags, skips, ok := w.bitmaps()
	if !ok {
		return res, ErrInvalidProof
	}

	queue := make([][WordSize]byte, k)
	copy(queue, leaves)
	var shadow [][WordSize]byte
	if newLeaves != nil {
		if len(newLeaves) != k {
			return res, ErrLengthMismatch
		}
		shadow = make([][WordSize]byte, k)
		copy(shadow, newLeaves)
	}

	// The first queue entry is the highest proved index; its path up the
	// tree merges into the right edge at the level of the lowest set bit of
	// count, from where the append decommitments are snapshotted. tracked
	// follows that path's slot through the ring.
	var (
		frontier, newFrontier [][WordSize]byte
		remaining             uint32
		capture               int
		tracked               int
	)
	if deriveFrontier {
		capture = bits.OnesCount32(count)
		frontier = make([][WordSize]byte, capture)
		if shadow != nil {
			newFrontier = make([][WordSize]byte, capture)
		}
		remaining = count
	}

	read, write := 0, 0
	next := 3
	merges := 0
	bit := uint256.NewInt(1)
	mask := new(uint256.Int)

	for step := uint(0); step < 256; step++ {
		skip := !mask.And(skips, bit).IsZero()
		flag := !mask.And(flags, bit).IsZero()

		if skip && flag {
			last := write - 1
			if last < 0 {
				last = k - 1
			}
			res.root = queue[last]
			if shadow != nil {
				res.newRoot = shadow[last]
			}
			// A queue of k leaves only reduces to a single digest through
			// exactly k-1 in-queue merges; a terminator arriving earlier
			// leaves elements that never contributed to the root. Trailing
			// garbage invalidates the witness the same way: no unconsumed
			// decommitments, no bits above the terminator.
			if merges != k-1 || next != len(w) ||
				!mask.Rsh(flags, step+1).IsZero() ||
				!mask.Rsh(skips, step+1).IsZero() {
				return res, ErrInvalidProof
			}
			if deriveFrontier {
				if remaining == 1 {
					capture--
					frontier[capture] = res.root
					if shadow != nil {
						newFrontier[capture] = res.newRoot
					}
					remaining = 0
				}
				if remaining != 0 || capture != 0 {
					return res, ErrInvalidProof
				}
				res.frontier = frontier
				res.newFrontier = newFrontier
			}
			return res, nil
		}

		onTrackedPath := deriveFrontier && read == tracked
		snapshot := onTrackedPath && remaining&1 == 1
		if snapshot {
			capture--
			if capture < 0 {
				return res, ErrInvalidProof
			}
		}

		switch {
		case skip:
			if snapshot {
				frontier[capture] = queue[read]
				if shadow != nil {
					newFrontier[capture] = shadow[read]
				}
			}
			queue[write] = queue[read]
			if shadow != nil {
				shadow[write] = shadow[read]
			}
			read = (read + 1) % k
		case flag:
			left := (read + 1) % k
			if snapshot {
				frontier[capture] = queue[left]
				if shadow != nil {
					newFrontier[capture] = shadow[left]
				}
			}
			queue[write] = th.HashChildren(queue[left], queue[read])
			if shadow != nil {
				shadow[write] = th.HashChildren(shadow[left], shadow[read])
			}
			read = (read + 2) % k
			merges++
		default:
			if next >= len(w) {
				return res, ErrInvalidProof
			}
			d := w[next]
			next++
			if snapshot {
				frontier[capture] = d
				if shadow != nil {
					// A decommitted sibling lies outside the rewritten
					// set, so the new frontier carries it unchanged.
					newFrontier[capture] = d
				}
			}
			queue[write] = th.HashChildren(d, queue[read])
			if shadow != nil {
				shadow[write] = th.HashChildren(d, shadow[read])
			}
			read = (read + 1) % k
		}

		if onTrackedPath {
			tracked = write
			remaining >>= 1
		}
		write = (write + 1) % k
		bit.Lsh(bit, 1)
	}
	return res, ErrInvalidProof
}

// VerifyMulti reports whether witness proves that every element is a member
// of the tree committed to by root. Elements must be supplied in strictly
// decreasing index order, the order their witness was derived for. Only
// defined for sorted-pair hashing.
func VerifyMulti(th TreeHasher, root [WordSize]byte, elements [][WordSize]byte, w Witness) bool {
	count, ok := w.TreeSize()
	if !ok || count == 0 || root == zeroDigest {
		return false
	}
	res, err := multiRoots(th, hashLeaves(th, elements), nil, w, false)
	if err != nil {
		return false
	}
	return th.HashRoot(count, res.root) == root
}

// UpdateMulti rewrites the proved elements to newElements (matched by
// position, both in strictly decreasing index order) and returns the new
// committed root. All rewrites share the one witness: the shadow queue
// replays the same transitions with the same decommitments. Only defined
// for sorted-pair hashing.
func UpdateMulti(th TreeHasher, root [WordSize]byte, elements, newElements [][WordSize]byte, w Witness) ([WordSize]byte, error) {
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
	res, err := multiRoots(th, hashLeaves(th, elements), hashLeaves(th, newElements), w, false)
	if err != nil {
		return zeroDigest, err
	}
	if th.HashRoot(count, res.root) != root {
		return zeroDigest, ErrInvalidProof
	}
	return th.HashRoot(count, res.newRoot), nil
}
