package core

import (
	"slices"
)

// Topic is a named list of keyword phrases.
type Topic struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// TopicTable maps topic names to keyword lists and remembers the order in
// which topics were added.
type TopicTable struct {
	topics []Topic
	index  map[string]int
}

// NewTopicTable creates a table from topics, in order. A repeated name
// replaces the earlier keywords but keeps the earlier position.
func NewTopicTable(topics ...Topic) *TopicTable {
	t := &TopicTable{index: make(map[string]int, len(topics))}
	for _, topic := range topics {
		t.Set(topic.Name, topic.Keywords)
	}
	return t
}

// Set stores a copy of keywords under name.
func (t *TopicTable) Set(name string, keywords []string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	kw := slices.Clone(keywords)
	if i, ok := t.index[name]; ok {
		t.topics[i].Keywords = kw
		return
	}
	t.index[name] = len(t.topics)
	t.topics = append(t.topics, Topic{Name: name, Keywords: kw})
}

// Keywords returns a copy of the keywords for name.
func (t *TopicTable) Keywords(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.topics[i].Keywords), true
}

// Names returns topic names in insertion order.
func (t *TopicTable) Names() []string {
	names := make([]string, len(t.topics))
	for i, topic := range t.topics {
		names[i] = topic.Name
	}
	return names
}

// Topics returns a deep copy of the topics in insertion order.
func (t *TopicTable) Topics() []Topic {
	out := make([]Topic, len(t.topics))
	for i, topic := range t.topics {
		out[i] = Topic{Name: topic.Name, Keywords: slices.Clone(topic.Keywords)}
	}
	return out
}

// Len returns the number of topics.
func (t *TopicTable) Len() int {
	return len(t.topics)
}

// Candidate is a piece of document text to be scored, together with the
// token range it covers. For non-contiguous token subsets the span runs from
// the first to the last selected token.
type Candidate struct {
	Span Span
	Text string
}
