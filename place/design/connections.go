package design

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sasic-place/sasic-place/place"
)

// Connections is a cell's port → net map that keeps the file's port order.
type Connections []place.Conn

// UnmarshalYAML decodes a mapping node pair by pair so port order survives.
func (c *Connections) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: connections must be a mapping of port to net", node.Line)
	}
	out := make(Connections, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		var net int
		if err := v.Decode(&net); err != nil {
			return fmt.Errorf("line %d: port %s: net must be an integer", v.Line, k.Value)
		}
		out = append(out, place.Conn{Port: k.Value, Net: place.NetID(net)})
	}
	*c = out
	return nil
}
