package binance

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSignerKnownVector(t *testing.T) {
	s := NewHMACSigner("NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j")
	got, err := s.Sign("symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559")
	require.NoError(t, err)
	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", got)
}

func TestHMACSignerShape(t *testing.T) {
	s := NewHMACSigner("secret")
	a, err := s.Sign("timestamp=1")
	require.NoError(t, err)
	b, err := s.Sign("timestamp=1")
	require.NoError(t, err)
	c, err := s.Sign("timestamp=2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
	assert.Equal(t, hmacHex("secret", "timestamp=1"), a)
}

func TestHMACSignerWithoutSecret(t *testing.T) {
	_, err := NewHMACSigner("").Sign("timestamp=1")
	assert.True(t, errors.Is(err, ErrMissingSecret))

	var nilSigner *HMACSigner
	_, err = nilSigner.Sign("timestamp=1")
	assert.True(t, errors.Is(err, ErrMissingSecret))
}

func TestEd25519SignerVerifies(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	s := NewEd25519Signer(priv)

	payload := "symbol=BTCUSDT&side=SELL&type=LIMIT&timeInForce=GTC&quantity=1&price=52000&timestamp=1700000000000"
	got, err := s.Sign(payload)
	require.NoError(t, err)

	sig, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	pub := priv.Public().(ed25519.PublicKey)
	assert.True(t, ed25519.Verify(pub, []byte(payload), sig))
	assert.False(t, ed25519.Verify(pub, []byte(payload+"0"), sig))

	again, err := s.Sign(payload)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = NewEd25519Signer(nil).Sign(payload)
	assert.True(t, errors.Is(err, ErrMissingSecret))
}

func TestEd25519SignatureIsEscapedInURL(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{1}, ed25519.SeedSize))
	c := NewClientWithOptions(Options{
		APIKey: "key",
		Signer: NewEd25519Signer(priv),
		Now:    fixedClock(1700000000000),
	})
	req, err := c.buildRequest(EndpointAccount, args{})
	require.NoError(t, err)

	sig, err := base64.StdEncoding.DecodeString(req.Signature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(priv.Public().(ed25519.PublicKey), []byte(req.Payload()), sig))
	assert.NotContains(t, req.URL(), "+")
	assert.NotContains(t, req.URL()[len("/api/v3/account?"):], "/")
}

func TestCredentialsNeverPrintSecret(t *testing.T) {
	creds := Credentials{APIKey: "abcdefgh12345678", APISecret: "super-secret-value"}

	outputs := []string{
		creds.String(),
		fmt.Sprintf("%v", creds),
		fmt.Sprintf("%+v", creds),
		fmt.Sprintf("%#v", creds),
		fmt.Sprintf("%s", creds),
	}
	raw, err := json.Marshal(creds)
	require.NoError(t, err)
	outputs = append(outputs, string(raw))

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("creds", creds).Msg("loaded")
	outputs = append(outputs, buf.String())

	for _, out := range outputs {
		assert.NotContains(t, out, "super-secret-value")
		assert.NotContains(t, out, "abcdefgh12345678")
	}
	assert.Contains(t, creds.String(), "abcd****")
	assert.Contains(t, creds.String(), "[REDACTED]")
}

func TestSignerStringRedacts(t *testing.T) {
	assert.NotContains(t, fmt.Sprint(NewHMACSigner("super-secret-value")), "super-secret-value")
	assert.Equal(t, "Ed25519Signer{[REDACTED]}", NewEd25519Signer(nil).String())
}
