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

package compact

// The right frontier of a tree with count elements is the set of perfect
// subtrees whose roots are sufficient to represent the whole tree: one
// subtree per set bit of count, largest first. Append witnesses carry
// exactly these roots.

// FrontierSize returns the number of perfect subtrees on the right frontier
// of a tree holding count elements.
func FrontierSize(count uint32) int {
	return CountSetBits(count)
}

// MinimumCombinedIndex returns the smallest element index whose inclusion in
// a multi-element witness guarantees that the replay visits every frontier
// subtree of a tree holding count elements, which is what a combined
// membership-plus-append witness requires. It is count with its lowest set
// bit cleared: the first index inside the smallest frontier subtree.
func MinimumCombinedIndex(count uint32) uint32 {
	return count - (count & -count)
}
