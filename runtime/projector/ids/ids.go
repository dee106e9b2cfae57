// Package ids generates public stream identifiers.
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// New generates a stream_id of the form "{prefix}_{hex32}", where hex32 is
// 32 hexadecimal characters (16 bytes) of cryptographically secure
// randomness read from crypto/rand. Panics only if the system CSPRNG is
// unavailable, which crypto/rand.Read never returns in practice.
func New(prefix string) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("ids: crypto/rand unavailable: %v", err))
	}
	return prefix + "_" + hex.EncodeToString(buf)
}
