package compose

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/blake2b"

	"watchtower/internal/domain"
)

// StructuralHash returns a cheap change-detection key for a composition
// input pair. Two calls produce the same hash exactly when the snapshot
// version and the expanded set are unchanged, which by purity of Compose
// means the composed graph is unchanged too. The serving layer uses it to
// cache composed graphs and to skip redundant rebroadcasts.
//
// The snapshot supplier is responsible for assigning a fresh Version on
// every refresh; hashing topology content would defeat the "cheap" part.
func StructuralHash(topo *domain.Topology, expanded ViewState) string {
	h, _ := blake2b.New256(nil)
	io.WriteString(h, topo.Version)
	h.Write([]byte{0})
	for _, id := range expanded.Sorted() {
		io.WriteString(h, id)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
