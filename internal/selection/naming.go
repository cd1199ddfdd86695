package selection

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// concatLimit is the largest member count whose group name is the plain
// concatenation of member names.
const concatLimit = 3

// UseConcatenatedName reports whether a group of n members is named by
// concatenating its member names instead of hashing them.
func UseConcatenatedName(n int) bool {
	return n <= concatLimit
}

// ContentHash returns a stable hash of the member names, independent of
// their order.
func ContentHash(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	h := fnv.New32a()
	for _, name := range sorted {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// GroupName names a branch or chunk declaration covering names.
func GroupName(names []string) string {
	if UseConcatenatedName(len(names)) {
		return strings.Join(names, "_")
	}
	return "Group_" + ContentHash(names)
}

// ChunkTypeNames splits names into consecutive chunks of at most size
// members. A list no longer than size is not chunked.
func ChunkTypeNames(names []string, size int) []Chunk {
	if size <= 0 || len(names) <= size {
		return nil
	}
	var chunks []Chunk
	for start := 0; start < len(names); start += size {
		end := min(start+size, len(names))
		members := append([]string(nil), names[start:end]...)
		chunks = append(chunks, Chunk{Name: GroupName(members), TypeNames: members})
	}
	return chunks
}
