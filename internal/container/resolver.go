package container

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/credentials"
	"github.com/dmitrijs2005/invkeeper/internal/workbook"
)

// Format names the encoding a resolved file was found in.
type Format string

const (
	FormatPlain  Format = "plain"
	FormatNative Format = "native"
	FormatOOXML  Format = "ooxml"
)

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Payload    []byte
	Credential credentials.Credential
	Format     Format
}

// Decrypter opens a native container. *Codec satisfies it.
type Decrypter interface {
	Decrypt(raw []byte, password string) ([]byte, error)
}

// Resolver tries candidate passwords against a file in order.
type Resolver struct {
	native Decrypter
}

func NewResolver(native Decrypter) *Resolver {
	return &Resolver{native: native}
}

// Resolve returns the payload and the first candidate that opens raw.
//
// An unencrypted workbook only matches the credentials.ScopeNone candidate;
// encrypted files never match it. A wrong password moves on to the next
// candidate; corruption stops resolution immediately. When nothing matches
// the error is common.ErrNotFound.
func (r *Resolver) Resolve(raw []byte, candidates []credentials.Credential) (Resolution, error) {
	format, err := detect(raw)
	if err != nil {
		return Resolution{}, err
	}

	for _, c := range candidates {
		if c.Scope == credentials.ScopeNone {
			if format != FormatPlain {
				continue
			}
			if !workbook.IsWorkbook(raw) {
				return Resolution{}, fmt.Errorf("%w: unreadable workbook", common.ErrCorrupt)
			}
			return Resolution{Payload: raw, Credential: c, Format: FormatPlain}, nil
		}

		var payload []byte
		switch format {
		case FormatNative:
			payload, err = r.native.Decrypt(raw, c.Password)
		case FormatOOXML:
			payload, err = workbook.DecryptOOXML(raw, c.Password)
		default:
			continue
		}

		switch {
		case err == nil:
			return Resolution{Payload: payload, Credential: c, Format: format}, nil
		case errors.Is(err, common.ErrWrongPassword):
			continue
		default:
			return Resolution{}, err
		}
	}

	return Resolution{}, common.ErrNotFound
}

func detect(raw []byte) (Format, error) {
	switch {
	case IsContainer(raw):
		return FormatNative, nil
	case workbook.IsOLE(raw):
		return FormatOOXML, nil
	case workbook.IsZip(raw):
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("%w: unrecognised file format", common.ErrCorrupt)
	}
}
