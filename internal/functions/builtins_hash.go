package functions

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func init() {
	for name, k := range hashBuiltins {
		builtins[name] = k
	}
}

// hashBuiltins covers §6.4's hash functions and UUID generators. UUID()/
// STRUUID() use google/uuid, the library SPEC_FULL.md's domain stack
// wires for identifier generation (the teacher's own codebase uses it
// for request/session IDs).
var hashBuiltins = map[string]kernel{
	"MD5":     hashFunc(func(b []byte) []byte { h := md5.Sum(b); return h[:] }),
	"SHA1":    hashFunc(func(b []byte) []byte { h := sha1.Sum(b); return h[:] }),
	"SHA256":  hashFunc(func(b []byte) []byte { h := sha256.Sum256(b); return h[:] }),
	"SHA384":  hashFunc(func(b []byte) []byte { h := sha512.Sum384(b); return h[:] }),
	"SHA512":  hashFunc(func(b []byte) []byte { h := sha512.Sum512(b); return h[:] }),
	"UUID":    evalUUID,
	"STRUUID": evalStrUUID,
}

func hashFunc(sum func([]byte) []byte) kernel {
	return func(args []Expr, binding Binding) (rdf.Term, error) {
		s, err := arg1String(args, binding, "hash function")
		if err != nil {
			return nil, err
		}
		return rdf.NewLiteral(hex.EncodeToString(sum([]byte(s)))), nil
	}
}

func evalUUID(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 0 {
		return nil, argErr("UUID", 0, len(args))
	}
	return rdf.NewNamedNode("urn:uuid:" + uuid.NewString()), nil
}

func evalStrUUID(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 0 {
		return nil, argErr("STRUUID", 0, len(args))
	}
	return rdf.NewLiteral(uuid.NewString()), nil
}
