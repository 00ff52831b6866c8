package frequency

import (
	"fmt"
	"strings"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
)

// Subset restricts freqs to the keywords of topic, in keyword order.
// Keywords that never occur are reported with a count of zero. A topic
// missing from topics yields ErrTopicNotFound.
func Subset(freqs map[string]int, topics *core.TopicTable, topic string) (Frequencies, error) {
	keywords, ok := topics.Keywords(topic)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topic)
	}
	out := make(Frequencies, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, TermCount{Term: kw, Count: freqs[kw]})
	}
	return out, nil
}

// BuildTopicTable processes every topic's keywords the same way document
// text is processed, so keywords can be looked up in a document's frequency
// table.
//
// For each topic, in order, the topic name is appended to its keywords, the
// phrases are joined and tokenized, and the tokens are filtered with
// lemmatization. Repeated words keep their first position. The input table
// is not modified.
func BuildTopicTable(topics *core.TopicTable, p *nlp.Processor) *core.TopicTable {
	return BuildTopicTableMode(topics, p, nlp.Lemmatize)
}

// BuildTopicTableMode is BuildTopicTable with an explicit filter mode, for
// matching against documents counted with the same mode.
func BuildTopicTableMode(topics *core.TopicTable, p *nlp.Processor, mode nlp.FilterMode) *core.TopicTable {
	processed := core.NewTopicTable()
	for _, topic := range topics.Topics() {
		phrases := append(topic.Keywords, topic.Name)
		filtered := p.Filter(p.Tokenize(strings.Join(phrases, " ")), mode)

		words := nlp.Words(filtered)
		unique := make([]string, 0, len(words))
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			if seen[w] {
				continue
			}
			seen[w] = true
			unique = append(unique, w)
		}
		processed.Set(topic.Name, unique)
	}
	return processed
}
