package dataset

import "strings"

// LayerChoice is the layer picked from a container.
type LayerChoice struct {
	Name string
	// Fallback is true when nothing matched the keyword and the first
	// layer was taken.
	Fallback bool
}

// ChooseLayer returns the first layer whose name contains keyword
// (case-insensitive), in enumeration order. Without a match the first
// layer is returned with Fallback set. An empty list gives an empty
// choice; the caller treats that as a malformed container.
func ChooseLayer(layers []string, keyword string) LayerChoice {
	if len(layers) == 0 {
		return LayerChoice{}
	}
	kw := strings.ToLower(keyword)
	for _, l := range layers {
		if strings.Contains(strings.ToLower(l), kw) {
			return LayerChoice{Name: l}
		}
	}
	return LayerChoice{Name: layers[0], Fallback: true}
}
