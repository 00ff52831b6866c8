package search

import (
	"github.com/poiesic/policylens/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbedding(dimension int)
	AfterSimilaritySearch(results []*core.PassageResult)
	VerbatimHit(result *core.PassageResult)
	Finish(results []*core.PassageResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                {}
func (n *noopMonitor) AfterEmbedding(_ int)                          {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.PassageResult) {}
func (n *noopMonitor) VerbatimHit(_ *core.PassageResult)             {}
func (n *noopMonitor) Finish(_ []*core.PassageResult)                {}
