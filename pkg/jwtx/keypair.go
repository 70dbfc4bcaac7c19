package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a compact JWT string and returns its parsed claims.
type Verifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// Signer produces signed compact JWT strings from claims.
type Signer interface {
	Sign(claims Claims) (string, error)
}

// Keypair is an Ed25519 signing keypair implementing both Signer and
// Verifier. The service signs and verifies its own session tokens, so one
// key with a kid header is all that is needed.
type Keypair struct {
	kid    string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
}

// GenerateKeypair creates an ephemeral Ed25519 keypair. Sessions do not
// survive a restart in this mode, which is fine for single-node deploys.
func GenerateKeypair(kid, issuer string) (*Keypair, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate ed25519 key: %w", err)
	}
	return &Keypair{kid: kid, key: key, pub: pub, issuer: issuer}, nil
}

// LoadKeypairPEM loads an Ed25519 private key from PKCS8 PEM bytes so session
// tokens stay valid across restarts.
func LoadKeypairPEM(kid, issuer string, pemKey []byte) (*Keypair, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not Ed25519 private key")
	}

	return &Keypair{
		kid:    kid,
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
		issuer: issuer,
	}, nil
}

func (k *Keypair) KID() string { return k.kid }

// Sign turns claims into a signed JWT string with the kid header set.
func (k *Keypair) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = k.kid
	return t.SignedString(k.key)
}

// Verify validates the JWT string and returns its parsed Claims.
func (k *Keypair) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != k.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return k.pub, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("jwtx: invalid token")
	}

	if err := claims.ValidateIssuer(k.issuer); err != nil {
		return nil, err
	}
	return claims, nil
}
