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
	"crypto/rand"
	"strings"
	"testing"

	"github.com/transparency-dev/formats/log"
	"golang.org/x/mod/sumdb/note"

	"github.com/unluckythoughts/merkle-trees/keccak256"
	"github.com/unluckythoughts/merkle-trees/proof"
	"github.com/unluckythoughts/merkle-trees/testonly"
)

const testOrigin = "example.com/vector/1"

func newSignedCheckpoint(t *testing.T, signer note.Signer, size uint32, root [32]byte) []byte {
	t.Helper()
	ckpt := log.Checkpoint{
		Origin: testOrigin,
		Size:   uint64(size),
		Hash:   root[:],
	}
	signed, err := note.Sign(&note.Note{Text: string(ckpt.Marshal())}, signer)
	if err != nil {
		t.Fatalf("failed to sign checkpoint: %v", err)
	}
	return signed
}

func newKeyPair(t *testing.T) (note.Signer, note.Verifier) {
	t.Helper()
	skey, vkey, err := note.GenerateKey(rand.Reader, testOrigin)
	if err != nil {
		t.Fatalf("unexpected error creating key: %v", err)
	}
	signer, err := note.NewSigner(skey)
	if err != nil {
		t.Fatalf("unexpected error creating signer: %v", err)
	}
	verifier, err := note.NewVerifier(vkey)
	if err != nil {
		t.Fatalf("unexpected error creating verifier: %v", err)
	}
	return signer, verifier
}

func TestBundleRoundTrip(t *testing.T) {
	th := keccak256.Sorted
	signer, verifier := newKeyPair(t)
	elements := testonly.Elements(testSeed, 13)
	tree := buildTree(t, th, elements)
	checkpoint := newSignedCheckpoint(t, signer, tree.Count(), tree.Root())

	for _, index := range []uint32{0, 5, 12} {
		w, err := tree.ProveSingle(index)
		if err != nil {
			t.Fatalf("ProveSingle(%d): %v", index, err)
		}
		bundle := proof.NewBundle(index, w, checkpoint)
		got, err := proof.VerifyBundle(th, bundle, elements[index], testOrigin, verifier)
		if err != nil {
			t.Fatalf("VerifyBundle(%d): %v", index, err)
		}
		if got != index {
			t.Errorf("proved index %d, want %d", got, index)
		}
	}
}

func TestBundleRejects(t *testing.T) {
	th := keccak256.Sorted
	signer, verifier := newKeyPair(t)
	elements := testonly.Elements(testSeed, 13)
	tree := buildTree(t, th, elements)
	checkpoint := newSignedCheckpoint(t, signer, tree.Count(), tree.Root())
	w, err := tree.ProveSingle(5)
	if err != nil {
		t.Fatalf("ProveSingle: %v", err)
	}
	bundle := proof.NewBundle(5, w, checkpoint)

	t.Run("wrong element", func(t *testing.T) {
		if _, err := proof.VerifyBundle(th, bundle, elements[6], testOrigin, verifier); err == nil {
			t.Error("verified the wrong element")
		}
	})
	t.Run("wrong origin", func(t *testing.T) {
		if _, err := proof.VerifyBundle(th, bundle, elements[5], "example.com/other", verifier); err == nil {
			t.Error("verified against the wrong origin")
		}
	})
	t.Run("wrong signer", func(t *testing.T) {
		_, otherVerifier := newKeyPair(t)
		if _, err := proof.VerifyBundle(th, bundle, elements[5], testOrigin, otherVerifier); err == nil {
			t.Error("verified with the wrong verifier")
		}
	})
	t.Run("tampered checkpoint", func(t *testing.T) {
		tampered := []byte(strings.Replace(string(bundle), "13", "14", 1))
		if _, err := proof.VerifyBundle(th, tampered, elements[5], testOrigin, verifier); err == nil {
			t.Error("verified a tampered checkpoint")
		}
	})
	t.Run("tampered index", func(t *testing.T) {
		tampered := []byte(strings.Replace(string(bundle), "index 5", "index 6", 1))
		if _, err := proof.VerifyBundle(th, tampered, elements[5], testOrigin, verifier); err == nil {
			t.Error("verified a tampered index")
		}
	})
	t.Run("missing header", func(t *testing.T) {
		broken := []byte(strings.Replace(string(bundle), bundleHeaderLine, "not-a-proof@v1\n", 1))
		if _, err := proof.VerifyBundle(th, broken, elements[5], testOrigin, verifier); err == nil {
			t.Error("verified without the header")
		}
	})
}

const bundleHeaderLine = "merkle-trees/proof@v1\n"
