package stellar

import (
	"crypto/ed25519"
	"crypto/rand"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
)

// KeyPair holds an Ed25519 signing key and its public half. The public key
// doubles as the account id in strkey form.
type KeyPair struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// NewRandomKeyPair generates a keypair from the system entropy source.
func NewRandomKeyPair() (kp *KeyPair, err error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		err = errors.Wrap(err, "failed to generate ed25519 key")
		return
	}
	kp = &KeyPair{private: private, public: public}
	return
}

// KeyPairFromSeed derives a keypair from an S... strkey seed.
func KeyPairFromSeed(seed string) (kp *KeyPair, err error) {
	raw, err := DecodeStrkey(StrkeyVersionSeed, seed)
	if err != nil {
		return
	}
	return KeyPairFromRawSeed(raw)
}

// KeyPairFromRawSeed derives a keypair from 32 bytes of seed material.
func KeyPairFromRawSeed(raw []byte) (kp *KeyPair, err error) {
	if len(raw) != ed25519.SeedSize {
		err = errors.Errorf("expected a %d byte seed, got %d bytes", ed25519.SeedSize, len(raw))
		return
	}
	private := ed25519.NewKeyFromSeed(raw)
	kp = &KeyPair{
		private: private,
		public:  private.Public().(ed25519.PublicKey),
	}
	return
}

// KeyPairFromPrivateKey wraps an externally supplied ed25519 private key.
// The 32-byte short form is treated as a seed.
func KeyPairFromPrivateKey(private ed25519.PrivateKey) (kp *KeyPair, err error) {
	switch len(private) {
	case ed25519.SeedSize:
		return KeyPairFromRawSeed(private)
	case ed25519.PrivateKeySize:
		kp = &KeyPair{
			private: private,
			public:  ed25519.PublicKey(private[32:]),
		}
	default:
		err = errors.Errorf(
			"expected a %d or %d length ed25519 private key, got %d bytes",
			ed25519.SeedSize,
			ed25519.PrivateKeySize,
			len(private))
	}
	return
}

// Address returns the account id in G... strkey form.
func (kp *KeyPair) Address() string {
	encoded, err := EncodeStrkey(StrkeyVersionAccount, kp.public)
	if err != nil {
		log.Warn().Msgf("failed to encode public key: %+v", err)
		return ""
	}
	return encoded
}

// Seed returns the secret seed in S... strkey form.
func (kp *KeyPair) Seed() (seed string, err error) {
	return EncodeStrkey(StrkeyVersionSeed, kp.private.Seed())
}

func (kp *KeyPair) PublicKey() ed25519.PublicKey {
	return kp.public
}

func (kp *KeyPair) Sign(payload []byte) []byte {
	return ed25519.Sign(kp.private, payload)
}

func (kp *KeyPair) Verify(payload, signature []byte) bool {
	return ed25519.Verify(kp.public, payload, signature)
}

// Hint returns the last four bytes of the public key, used to match
// decorated signatures to signers.
func (kp *KeyPair) Hint() (hint [4]byte) {
	copy(hint[:], kp.public[len(kp.public)-4:])
	return
}

// VerifySignature checks a signature against the public key embedded in a
// G... account id, rejecting encodings that are not valid curve points.
func VerifySignature(accountID string, payload, signature []byte) (err error) {
	key, err := DecodeStrkey(StrkeyVersionAccount, accountID)
	if err != nil {
		return
	}
	if _, pointErr := new(edwards25519.Point).SetBytes(key); pointErr != nil {
		err = errors.Wrapf(ErrInvalidPublicKey, "account id %s: %v", accountID, pointErr)
		return
	}
	if !ed25519.Verify(ed25519.PublicKey(key), payload, signature) {
		err = errors.Wrapf(ErrSignatureInvalid, "account id %s", accountID)
	}
	return
}
