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

// Package compact provides the bit-level index arithmetic over the implicit
// balanced tree that an unbalanced element-tree embeds into. Element counts
// and indices are 32-bit; a tree never holds more than 2^31 elements.
package compact

import "math/bits"

// CountSetBits returns the population count of n.
func CountSetBits(n uint32) int {
	return bits.OnesCount32(n)
}

// RoundUpToPowerOf2 returns the smallest power of two that is >= n.
// It requires n <= 2^31, and maps 0 to 1.
func RoundUpToPowerOf2(n uint32) uint32 {
	if n < 2 {
		return 1
	}
	return 1 << (32 - bits.LeadingZeros32(n-1))
}

// Depth returns the number of levels between the leaves and the root of a
// tree holding count elements. The one-element tree has depth 0.
func Depth(count uint32) int {
	if count < 2 {
		return 0
	}
	return bits.Len32(count - 1)
}
