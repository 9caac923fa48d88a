package adapters

import (
	"bytes"
	"crypto"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/ports"
)

// GPGSignerAdapter signs package artifacts with an OpenPGP private key.
type GPGSignerAdapter struct {
	entity *openpgp.Entity
}

func NewGPGSigner(keyPath string, passphrase string) (*GPGSignerAdapter, error) {
	if keyPath == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("signing key path is empty")
	}
	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("signing key not found").
			WithCause(err)
	}
	defer keyFile.Close()

	entities, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		if _, seekErr := keyFile.Seek(0, 0); seekErr != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to rewind key file").
				WithCause(seekErr)
		}
		entities, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read signing key").
				WithCause(err)
		}
	}
	if len(entities) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no keys found in key file")
	}
	entity := entities[0]

	if passphrase != "" {
		if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("failed to decrypt signing key").
					WithCause(err)
			}
		}
		for _, subkey := range entity.Subkeys {
			if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
				if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
					return nil, errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg("failed to decrypt signing subkey").
						WithCause(err)
				}
			}
		}
	}
	return &GPGSignerAdapter{entity: entity}, nil
}

// SignDetached creates an armored detached signature over data.
func (s *GPGSignerAdapter) SignDetached(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA512,
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create detached signature").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

var _ ports.SignerPort = (*GPGSignerAdapter)(nil)
