package chunking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// fingerprintLen bounds how much of the chunk text feeds the content hash.
// Two chunks differing only beyond this prefix share a fingerprint, but
// (source, sequence index) still keeps their ids distinct.
const fingerprintLen = 200

// ChunkID derives the stable identity of a chunk from its source, position
// and a content-prefix fingerprint. The same inputs always produce the same
// id, which is what makes re-indexing an idempotent upsert: unchanged
// chunks overwrite themselves, edited chunks get a fresh id.
func ChunkID(source string, sequenceIndex int, text string) string {
	prefix := text
	if len(prefix) > fingerprintLen {
		prefix = prefix[:fingerprintLen]
	}
	sum := sha256.Sum256([]byte(source + "#" + fmt.Sprint(sequenceIndex) + "#" + prefix))
	return fmt.Sprintf("%s#%d#%s", source, sequenceIndex, hex.EncodeToString(sum[:])[:8])
}
