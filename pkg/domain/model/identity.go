package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// maxIdentityBytes is the Firestore document ID size limit
const maxIdentityBytes = 1500

// Identity is the opaque anonymous-session key every persisted record is
// scoped by. It never changes for the lifetime of the session.
type Identity string

// NewIdentity generates a fresh random Identity
func NewIdentity() Identity {
	return Identity(uuid.New().String())
}

func (x Identity) String() string {
	return string(x)
}

// IsEmpty reports whether no identity is set
func (x Identity) IsEmpty() bool {
	return x == ""
}

// Validate rejects identities that cannot be used as a document key
func (x Identity) Validate() error {
	if x.IsEmpty() {
		return goerr.New("identity is empty")
	}
	s := string(x)
	switch {
	case strings.Contains(s, "/"):
		return goerr.New("identity must not contain '/'", goerr.V("identity", x))
	case s == "." || s == "..":
		return goerr.New("identity must not be '.' or '..'", goerr.V("identity", x))
	case len(s) >= 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__"):
		return goerr.New("identity must not match __.*__", goerr.V("identity", x))
	case len(s) > maxIdentityBytes:
		return goerr.New("identity is too long", goerr.V("identity", x), goerr.V("length", len(s)))
	}
	return nil
}
