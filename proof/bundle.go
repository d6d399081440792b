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
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/transparency-dev/formats/log"
	"golang.org/x/mod/sumdb/note"
)

// bundleHeader identifies the textual single-element proof bundle format.
const bundleHeader = "merkle-trees/proof@v1"

// NewBundle composes a self-contained, portable proof bundle from a
// single-element witness and a note-signed checkpoint over the committed
// root. The checkpoint body is the transparency-dev checkpoint format with
// the element count as its size and the committed root as its hash; the
// witness count word is omitted from the bundle and recomputed from the
// checkpoint on verification, so the two cannot drift apart.
func NewBundle(index uint32, w Witness, checkpoint []byte) []byte {
	var b bytes.Buffer
	b.WriteString(bundleHeader + "\n")
	fmt.Fprintf(&b, "index %d\n", index)
	if len(w) > 0 {
		for _, word := range w[1:] {
			fmt.Fprintf(&b, "%s\n", base64.StdEncoding.EncodeToString(word[:]))
		}
	}
	b.WriteRune('\n')
	b.Write(checkpoint)
	return b.Bytes()
}

// VerifyBundle checks a proof bundle: the checkpoint must carry a valid
// signature from verifier for the given origin, and the witness must prove
// element at the bundled index against the signed root. It returns the
// proved index.
func VerifyBundle(th TreeHasher, bundle []byte, element [WordSize]byte, origin string, verifier note.Verifier) (uint32, error) {
	s := bufio.NewScanner(bytes.NewReader(bundle))

	if s.Scan(); s.Text() != bundleHeader {
		return 0, fmt.Errorf("proof bundle missing expected header")
	}

	s.Scan()
	idxStr, ok := strings.CutPrefix(s.Text(), "index ")
	if !ok {
		return 0, fmt.Errorf("proof bundle missing required index")
	}
	idx, err := strconv.ParseUint(idxStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("proof bundle index not a valid uint32: %w", err)
	}

	var words [][WordSize]byte
	for s.Scan() {
		if s.Text() == "" {
			break
		}
		raw, err := base64.StdEncoding.DecodeString(s.Text())
		if err != nil {
			return 0, fmt.Errorf("proof bundle word not base64 encoded: %w", err)
		}
		if len(raw) != WordSize {
			return 0, fmt.Errorf("proof bundle word length was %d, expected %d", len(raw), WordSize)
		}
		var word [WordSize]byte
		copy(word[:], raw)
		words = append(words, word)
	}

	var checkpoint []byte
	for s.Scan() {
		checkpoint = append(checkpoint, s.Bytes()...)
		checkpoint = append(checkpoint, '\n')
	}

	ckpt, _, _, err := log.ParseCheckpoint(checkpoint, origin, verifier)
	if err != nil {
		return 0, fmt.Errorf("proof bundle checkpoint could not be verified: %w", err)
	}
	if ckpt.Size > math.MaxUint32 {
		return 0, fmt.Errorf("proof bundle checkpoint size %d out of range", ckpt.Size)
	}
	if len(ckpt.Hash) != WordSize {
		return 0, fmt.Errorf("proof bundle checkpoint hash length was %d, expected %d", len(ckpt.Hash), WordSize)
	}
	var root [WordSize]byte
	copy(root[:], ckpt.Hash)

	count := uint32(ckpt.Size)
	w := append(Witness{CountWord(count)}, words...)
	if !VerifySingle(th, root, count, uint32(idx), element, w) {
		return 0, ErrInvalidProof
	}
	return uint32(idx), nil
}
