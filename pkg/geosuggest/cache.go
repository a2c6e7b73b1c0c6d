package geosuggest

import "github.com/kailas-cloud/geosuggest/internal/domain/match"

// resultCache keeps the most recently applied match list.
type resultCache struct {
	policy  ApplyPolicy
	matches match.List
	// applied is the sequence number of the response behind matches.
	applied uint64
}

// replace swaps in list wholesale unless the policy rejects seq.
// A zero seq is unattributed and never rejected.
func (c *resultCache) replace(seq uint64, list match.List) bool {
	if c.policy == NewestRequestWins && seq != 0 && seq < c.applied {
		return false
	}
	c.matches = list.Clone()
	if seq > c.applied {
		c.applied = seq
	}
	return true
}

// settle records that request seq finished without a payload. Under
// NewestRequestWins older responses are rejected from then on.
func (c *resultCache) settle(seq uint64) {
	if c.policy == NewestRequestWins && seq > c.applied {
		c.applied = seq
	}
}

func (c *resultCache) lookup(name string) (Match, bool) {
	return c.matches.Find(name)
}

func (c *resultCache) snapshot() match.List {
	return c.matches.Clone()
}
