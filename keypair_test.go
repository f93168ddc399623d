package stellar

import (
	"strings"
	"testing"
)

func TestKeyPair_SeedRoundTrip(t *testing.T) {
	kp, err := NewRandomKeyPair()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !strings.HasPrefix(seed, "S") {
		t.Fatalf("expected seed to start with 'S', got '%s'", seed)
	}

	restored, err := KeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if restored.Address() != kp.Address() {
		t.Fatalf("restored keypair address %s does not match %s", restored.Address(), kp.Address())
	}
}

func TestKeyPair_AddressIsAccountStrkey(t *testing.T) {
	kp, err := NewRandomKeyPair()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	address := kp.Address()
	if !strings.HasPrefix(address, "G") {
		t.Fatalf("expected address to start with 'G', got '%s'", address)
	}

	key, err := DecodeStrkey(StrkeyVersionAccount, address)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected a 32 byte public key, got %d", len(key))
	}
}

func TestKeyPair_SignVerify(t *testing.T) {
	kp, err := NewRandomKeyPair()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	payload := []byte("payload to sign")
	signature := kp.Sign(payload)
	if !kp.Verify(payload, signature) {
		t.Fatal("signature does not verify")
	}
	if kp.Verify([]byte("different payload"), signature) {
		t.Fatal("signature must not verify a different payload")
	}
}

func TestKeyPair_FromShortPrivateKey(t *testing.T) {
	kp, err := NewRandomKeyPair()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	restored, err := KeyPairFromPrivateKey(kp.private.Seed())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if restored.Address() != kp.Address() {
		t.Fatalf("restored keypair address %s does not match %s", restored.Address(), kp.Address())
	}

	if _, err = KeyPairFromPrivateKey(make([]byte, 16)); err == nil {
		t.Fatal("expected error for a 16 byte private key")
	}
}

func TestVerifySignature(t *testing.T) {
	kp, err := NewRandomKeyPair()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	payload := []byte("account signed payload")
	signature := kp.Sign(payload)

	if err = VerifySignature(kp.Address(), payload, signature); err != nil {
		t.Fatalf("%+v", err)
	}
	if err = VerifySignature(kp.Address(), []byte("other payload"), signature); err == nil {
		t.Fatal("expected verification failure for a different payload")
	}
}
