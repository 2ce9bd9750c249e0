package treeops

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Id prefixes for generated report nodes
const (
	PrefixReportCopy   = "report-"
	PrefixReportDoc    = "report-doc-"
	PrefixReportFolder = "folder-"
	PrefixLibraryDir   = "lib-"
	PrefixUpload       = "upload-"
)

// IDGenerator hands out ids that are unique across every call
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator generates prefixed random UUIDs
type UUIDGenerator struct{}

// NewID returns prefix followed by a random UUID
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + uuid.NewString()
}

// SequenceGenerator generates predictable ids ("report-1", "report-2", ...).
// Used where output must be reproducible, such as tests and fixtures.
type SequenceGenerator struct {
	mu   sync.Mutex
	next int
}

// NewID returns prefix followed by the next sequence number
func (g *SequenceGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s%d", prefix, g.next)
}
