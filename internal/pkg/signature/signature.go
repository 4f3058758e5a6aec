package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// MinSecretLength is the minimum signing secret size in bytes
const MinSecretLength = 32

// separator joins the signed fields. Changing it invalidates every issued code.
const separator = "|"

var (
	ErrMissingSecret = errors.New("QR signature secret is not set")
	ErrWeakSecret    = errors.New("QR signature secret must be at least 32 bytes")
)

// Signer signs membership QR payloads with HMAC-SHA256.
// It holds only the read-only secret and is safe for concurrent use.
type Signer struct {
	secret []byte
}

// ValidateSecret checks the configuration invariant on the signing secret
func ValidateSecret(secret string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if len(secret) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}

// NewSigner creates a signer, failing on a missing or short secret
func NewSigner(secret string) (*Signer, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns the hex-encoded HMAC of userID|membershipID|timestamp
func (s *Signer) Sign(userID, membershipID, timestamp string) string {
	return hex.EncodeToString(s.mac(userID, membershipID, timestamp))
}

// Verify recomputes the signature and compares it in constant time
func (s *Signer) Verify(userID, membershipID, timestamp, signatureHex string) bool {
	got, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	return hmac.Equal(s.mac(userID, membershipID, timestamp), got)
}

func (s *Signer) mac(userID, membershipID, timestamp string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(CanonicalMessage(userID, membershipID, timestamp)))
	return h.Sum(nil)
}

// CanonicalMessage is the exact string covered by the signature
func CanonicalMessage(userID, membershipID, timestamp string) string {
	return strings.Join([]string{userID, membershipID, timestamp}, separator)
}
