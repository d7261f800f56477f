// MIT License
//
// # Copyright (c) 2024 hypercube-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/core/hypercube/hypercube_test.go
package hypercube

import (
	"bytes"
	"testing"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/types"
)

var testParams = types.Parameters{W: 4, V: 8, D0: 6, SecurityBits: 128, TreeHeight: 3}

func testKeyPair(t *testing.T) (*PublicKey, *SecretKey) {
	t.Helper()
	pk, sk, err := KeyGen(testParams, []byte("hypercube-test-seed"), 0, testParams.Lifetime())
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	return pk, sk
}

func TestSignVerifyRoundtrip(t *testing.T) {
	pk, sk := testKeyPair(t)
	digest := hasher.PreprocessMessage([]byte("message"))

	for epoch := uint32(0); epoch < testParams.Lifetime(); epoch++ {
		sig, err := sk.Sign(epoch, digest)
		if err != nil {
			t.Fatalf("Sign(%d): %v", epoch, err)
		}
		if !Verify(testParams, pk, epoch, digest, sig) {
			t.Fatalf("epoch %d: honest signature rejected", epoch)
		}
	}
}

func TestVerifyRejectsWrongInputs(t *testing.T) {
	pk, sk := testKeyPair(t)
	digest := hasher.PreprocessMessage([]byte("message"))
	sig, err := sk.Sign(2, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if Verify(testParams, pk, 3, digest, sig) {
		t.Fatal("signature verified under a different epoch")
	}
	other := hasher.PreprocessMessage([]byte("other message"))
	if Verify(testParams, pk, 2, other, sig) {
		t.Fatal("signature verified for a different digest")
	}

	otherPK, _, err := KeyGen(testParams, []byte("unrelated seed"), 0, testParams.Lifetime())
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if Verify(testParams, otherPK, 2, digest, sig) {
		t.Fatal("signature verified under an unrelated key")
	}
}

func TestSignEnforcesWindow(t *testing.T) {
	_, sk, err := KeyGen(testParams, []byte("windowed"), 2, 3)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	digest := hasher.PreprocessMessage([]byte("m"))

	if _, err := sk.Sign(1, digest); err == nil {
		t.Fatal("signed before the activation epoch")
	}
	if _, err := sk.Sign(5, digest); err == nil {
		t.Fatal("signed past the end of the window")
	}
	for epoch := uint32(2); epoch < 5; epoch++ {
		if _, err := sk.Sign(epoch, digest); err != nil {
			t.Fatalf("Sign(%d) inside the window: %v", epoch, err)
		}
	}
}

func TestKeyGenRejectsBadInputs(t *testing.T) {
	if _, _, err := KeyGen(types.Parameters{W: 1, V: 8, TreeHeight: 2}, []byte("s"), 0, 1); err == nil {
		t.Fatal("KeyGen accepted w=1")
	}
	if _, _, err := KeyGen(testParams, nil, 0, 1); err == nil {
		t.Fatal("KeyGen accepted an empty seed")
	}
	// Window [6, 6+4) ends past the height-3 lifetime of 8.
	if _, _, err := KeyGen(testParams, []byte("s"), 6, 4); err == nil {
		t.Fatal("KeyGen accepted a window past the lifetime")
	}
}

func TestPublicKeySerializeRoundtrip(t *testing.T) {
	pk, _ := testKeyPair(t)

	data := pk.Serialize()
	if len(data) != PublicKeySize {
		t.Fatalf("serialized size: got %d, want %d", len(data), PublicKeySize)
	}
	if data[0] != SerializeVersion {
		t.Fatalf("version byte: got %d, want %d", data[0], SerializeVersion)
	}

	parsed, err := DeserializePublicKey(data)
	if err != nil {
		t.Fatalf("DeserializePublicKey: %v", err)
	}
	if !bytes.Equal(parsed.Serialize(), data) {
		t.Fatal("public key roundtrip is not byte-identical")
	}

	if _, err := DeserializePublicKey(data[:PublicKeySize-1]); err == nil {
		t.Fatal("truncated public key parsed")
	}
	bad := append([]byte(nil), data...)
	bad[0] = SerializeVersion + 1
	if _, err := DeserializePublicKey(bad); err == nil {
		t.Fatal("unknown version parsed")
	}
}

func TestSignatureSerializeRoundtrip(t *testing.T) {
	pk, sk := testKeyPair(t)
	digest := hasher.PreprocessMessage([]byte("roundtrip"))
	sig, err := sk.Sign(4, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	data := sig.Serialize()
	parsed, err := DeserializeSignature(data)
	if err != nil {
		t.Fatalf("DeserializeSignature: %v", err)
	}
	if !bytes.Equal(parsed.Serialize(), data) {
		t.Fatal("signature roundtrip is not byte-identical")
	}
	if !Verify(testParams, pk, 4, digest, parsed) {
		t.Fatal("reparsed signature does not verify")
	}

	if _, err := DeserializeSignature(data[:len(data)-1]); err == nil {
		t.Fatal("truncated signature parsed")
	}
}

func TestSecretKeySerializeRoundtrip(t *testing.T) {
	pk, sk := testKeyPair(t)

	restored, err := DeserializeSecretKey(sk.Serialize())
	if err != nil {
		t.Fatalf("DeserializeSecretKey: %v", err)
	}
	if restored.Params() != sk.Params() {
		t.Fatalf("params: got %+v, want %+v", restored.Params(), sk.Params())
	}
	ra, rn := restored.ActiveWindow()
	sa, sn := sk.ActiveWindow()
	if ra != sa || rn != sn {
		t.Fatalf("window: got (%d,%d), want (%d,%d)", ra, rn, sa, sn)
	}

	// The regenerated key signs identically: same tree, same chain material.
	digest := hasher.PreprocessMessage([]byte("regen"))
	orig, err := sk.Sign(1, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	again, err := restored.Sign(1, digest)
	if err != nil {
		t.Fatalf("Sign (restored): %v", err)
	}
	if !bytes.Equal(orig.Serialize(), again.Serialize()) {
		t.Fatal("restored key produced a different signature")
	}
	if !Verify(testParams, pk, 1, digest, again) {
		t.Fatal("restored key's signature does not verify")
	}

	if _, err := DeserializeSecretKey(sk.Serialize()[:10]); err == nil {
		t.Fatal("truncated secret key parsed")
	}
}
