package css

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// NameGenerator issues animation names guaranteed unique within the current
// compilation run: a monotonic counter distinguishes names within the run,
// a random run token distinguishes runs whose output ends up in the same
// document.
//
// Not safe for concurrent use; the whole expansion is single-threaded.
type NameGenerator struct {
	prefix string
	run    string
	n      int
}

// NewNameGenerator creates a generator. The base is sanitized into a valid
// identifier; an empty base falls back to "ra" (randomized animation).
func NewNameGenerator(base string) *NameGenerator {
	base = slug.Make(base)
	if base == "" {
		base = "ra"
	}
	// first segment of a v4 uuid is enough to keep runs apart
	token, _, _ := strings.Cut(uuid.NewString(), "-")
	return &NameGenerator{prefix: base, run: token}
}

// Next returns a fresh unique name.
func (g *NameGenerator) Next() string {
	g.n++
	return fmt.Sprintf("%s-%s-%d", g.prefix, g.run, g.n)
}

// Issued returns how many names have been handed out so far.
func (g *NameGenerator) Issued() int {
	return g.n
}
