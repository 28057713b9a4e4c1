package binance

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"
)

var errUnsupportedKeyFormat = errors.New("unsupported ed25519 private key format")

// keyDecoder reports ok=false when data is not in its format.
type keyDecoder func(data []byte) (key ed25519.PrivateKey, ok bool, err error)

// ed25519KeyDecoders are tried in order; PEM is unambiguous so it goes first.
var ed25519KeyDecoders = []keyDecoder{
	decodePEMKey,
	decodeBase64Key,
	decodeRawKey,
}

func loadEd25519PrivateKey(path string) (ed25519.PrivateKey, error) {
	if path == "" {
		return nil, errors.New("ed25519_private_key_path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read ed25519 key")
	}
	return parseEd25519PrivateKey(data)
}

func parseEd25519PrivateKey(data []byte) (ed25519.PrivateKey, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty ed25519 private key")
	}
	for _, decode := range ed25519KeyDecoders {
		key, ok, err := decode(data)
		if err != nil {
			return nil, err
		}
		if ok {
			return key, nil
		}
	}
	return nil, errUnsupportedKeyFormat
}

func decodePEMKey(data []byte) (ed25519.PrivateKey, bool, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, false, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, false, errors.Wrapf(err, "parse %s block", block.Type)
	}
	key, isEd := parsed.(ed25519.PrivateKey)
	if !isEd {
		return nil, false, errors.Errorf("pem key is %T, want ed25519", parsed)
	}
	return key, true, nil
}

// decodeBase64Key accepts a full 64-byte private key or a 32-byte seed.
func decodeBase64Key(data []byte) (ed25519.PrivateKey, bool, error) {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, false, nil
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), true, nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), true, nil
	}
	return nil, false, nil
}

func decodeRawKey(data []byte) (ed25519.PrivateKey, bool, error) {
	if len(data) != ed25519.PrivateKeySize {
		return nil, false, nil
	}
	return ed25519.PrivateKey(bytes.Clone(data)), true, nil
}
