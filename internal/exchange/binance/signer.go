package binance

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
)

// Credentials holds the API key pair. The secret never leaves the process:
// every textual form of Credentials redacts it.
type Credentials struct {
	APIKey    string
	APISecret string
}

func (c Credentials) String() string {
	return "Credentials{APIKey:" + maskKey(c.APIKey) + " APISecret:" + redactSecret(c.APISecret) + "}"
}

func (c Credentials) GoString() string { return c.String() }

func (c Credentials) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"api_key":    maskKey(c.APIKey),
		"api_secret": redactSecret(c.APISecret),
	})
}

func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("api_key", maskKey(c.APIKey))
}

func maskKey(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + "****"
}

func redactSecret(v string) string {
	if v == "" {
		return ""
	}
	return "[REDACTED]"
}

// Signer turns the exact payload that will be transmitted into the value of
// the signature query parameter.
type Signer interface {
	Sign(payload string) (string, error)
}

// HMACSigner signs with hex(HMAC-SHA256(secret, payload)), the scheme used by
// HMAC API keys.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (s *HMACSigner) Sign(payload string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	return sign(s.secret, payload), nil
}

func (s *HMACSigner) String() string { return "HMACSigner{[REDACTED]}" }

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Ed25519Signer signs with base64(Ed25519(key, payload)) for Ed25519 API keys.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

func NewEd25519Signer(key ed25519.PrivateKey) *Ed25519Signer {
	return &Ed25519Signer{key: key}
}

// LoadEd25519Signer reads a PEM (PKCS#8), base64 or raw private key file.
func LoadEd25519Signer(path string) (*Ed25519Signer, error) {
	key, err := loadEd25519PrivateKey(path)
	if err != nil {
		return nil, &ConfigError{Op: "load ed25519 key", Err: err}
	}
	return NewEd25519Signer(key), nil
}

func (s *Ed25519Signer) Sign(payload string) (string, error) {
	if s == nil || len(s.key) != ed25519.PrivateKeySize {
		return "", ErrMissingSecret
	}
	return signEd25519(payload, s.key), nil
}

func (s *Ed25519Signer) String() string { return "Ed25519Signer{[REDACTED]}" }

func signEd25519(payload string, key ed25519.PrivateKey) string {
	sig := ed25519.Sign(key, []byte(payload))
	return base64.StdEncoding.EncodeToString(sig)
}
