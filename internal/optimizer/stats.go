package optimizer

import (
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/encoding"
)

func predicateObjectID(b quadstore.Bound) [17]byte {
	return [17]byte(encoding.ObjectIDFromTerm(b.Term))
}
