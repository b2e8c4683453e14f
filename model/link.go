package model

import "fmt"

// Link is an undirected edge between two nodes that share a tag. Endpoints
// are normalized so that Source < Target, which makes links comparable and
// keeps one link per node pair and tag.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Tag    Tag    `json:"tag"`
}

// NewLink creates a link between a and b with normalized endpoint order.
func NewLink(a string, b string, tag Tag) Link {
	if b < a {
		a, b = b, a
	}
	return Link{Source: a, Target: b, Tag: tag}
}

// Other returns the endpoint opposite to id and whether id is an endpoint
// at all.
func (l Link) Other(id string) (string, bool) {
	switch id {
	case l.Source:
		return l.Target, true
	case l.Target:
		return l.Source, true
	default:
		return "", false
	}
}

// String returns the link as "a -- b (key=value)".
func (l Link) String() string {
	return fmt.Sprintf("%s -- %s (%s)", l.Source, l.Target, l.Tag)
}
