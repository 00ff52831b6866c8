package frequency

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/policylens/core"
)

// LoadTopics reads a YAML topic file of the form
//
//	energy:
//	  - solar
//	  - wind
//	adaptation: [drought, flood]
//
// Topic order follows the file.
func LoadTopics(path string) (*core.TopicTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic file: %w", err)
	}
	table, err := ParseTopics(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseTopics parses YAML topic definitions, preserving topic order.
func ParseTopics(data []byte) (*core.TopicTable, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopicFile, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidTopicFile)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of topics", ErrInvalidTopicFile, mapping.Line)
	}

	table := core.NewTopicTable()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		var keywords []string
		if err := value.Decode(&keywords); err != nil {
			return nil, fmt.Errorf("%w: topic %q: %w", ErrInvalidTopicFile, key.Value, err)
		}
		table.Set(key.Value, keywords)
	}
	return table, nil
}
