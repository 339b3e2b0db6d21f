// Package container implements the native encrypted container used for every
// inventory file the application writes, and the resolver that figures out
// which password (if any) opens a file of unknown origin.
package container

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/cryptox"
)

const (
	version   byte = 1
	kdfArgon2 = "argon2id"

	// maxHeaderSize bounds the JSON header so a corrupt length prefix cannot
	// trigger a huge allocation.
	maxHeaderSize = 4096
	// maxMemoryKiB caps argon2 memory taken from an untrusted header (1 GiB).
	maxMemoryKiB = 1 << 20
)

var magic = []byte("INVX")

type header struct {
	KDF      string         `json:"kdf"`
	Params   cryptox.Params `json:"params"`
	Salt     []byte         `json:"salt"`
	Verifier []byte         `json:"verifier"`
	Nonce    []byte         `json:"nonce"`
}

// Codec encrypts and decrypts native containers.
//
// Layout: "INVX", version byte, uint32 big-endian header length, JSON header,
// AES-256-GCM ciphertext.
type Codec struct {
	params cryptox.Params
}

// NewCodec returns a codec writing containers with cryptox.DefaultParams.
func NewCodec() *Codec {
	return &Codec{params: cryptox.DefaultParams}
}

// NewCodecWithParams returns a codec writing containers with p. Decrypt
// always uses the parameters stored in the container.
func NewCodecWithParams(p cryptox.Params) (*Codec, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Codec{params: p}, nil
}

// IsContainer reports whether raw starts with the native container magic.
func IsContainer(raw []byte) bool {
	return len(raw) > len(magic) && bytes.HasPrefix(raw, magic)
}

// Encrypt seals payload under password. Every call uses a fresh salt and
// nonce, so two encryptions of the same payload differ.
func (c *Codec) Encrypt(payload []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, common.ErrEmptyPassword
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey([]byte(password), salt, c.params)
	defer common.WipeByteArray(key)

	ct, nonce, err := cryptox.Seal(key, payload)
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}

	h, err := json.Marshal(header{
		KDF:      kdfArgon2,
		Params:   c.params,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
		Nonce:    nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}

	out := make([]byte, 0, len(magic)+1+4+len(h)+len(ct))
	out = append(out, magic...)
	out = append(out, version)
	out = binary.BigEndian.AppendUint32(out, uint32(len(h)))
	out = append(out, h...)
	out = append(out, ct...)
	return out, nil
}

// Decrypt opens a container. A password that fails the verifier yields
// common.ErrWrongPassword; anything structurally wrong, including a body
// that fails authentication after the verifier matched, yields
// common.ErrCorrupt.
func (c *Codec) Decrypt(raw []byte, password string) ([]byte, error) {
	h, body, err := parse(raw)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey([]byte(password), h.Salt, h.Params)
	defer common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), h.Verifier) != 1 {
		return nil, common.ErrWrongPassword
	}

	plain, err := cryptox.Open(key, h.Nonce, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	return plain, nil
}

func parse(raw []byte) (header, []byte, error) {
	var h header

	prefix := len(magic) + 1 + 4
	if len(raw) < prefix || !bytes.HasPrefix(raw, magic) {
		return h, nil, fmt.Errorf("%w: bad magic", common.ErrCorrupt)
	}
	if v := raw[len(magic)]; v != version {
		return h, nil, fmt.Errorf("%w: unsupported version %d", common.ErrCorrupt, v)
	}

	n := binary.BigEndian.Uint32(raw[len(magic)+1 : prefix])
	if n == 0 || n > maxHeaderSize || int(n) > len(raw)-prefix {
		return h, nil, fmt.Errorf("%w: header length %d", common.ErrCorrupt, n)
	}

	if err := json.Unmarshal(raw[prefix:prefix+int(n)], &h); err != nil {
		return h, nil, fmt.Errorf("%w: header: %v", common.ErrCorrupt, err)
	}
	if h.KDF != kdfArgon2 {
		return h, nil, fmt.Errorf("%w: unknown kdf %q", common.ErrCorrupt, h.KDF)
	}
	if err := h.Params.Validate(); err != nil || h.Params.Memory > maxMemoryKiB {
		return h, nil, fmt.Errorf("%w: kdf params", common.ErrCorrupt)
	}
	if len(h.Salt) == 0 || len(h.Verifier) != 32 || len(h.Nonce) != cryptox.NonceSize {
		return h, nil, fmt.Errorf("%w: header fields", common.ErrCorrupt)
	}

	return h, raw[prefix+int(n):], nil
}
