// Package graph derives and holds the link structure between nodes.
// Links are not stored, they are computed from node tags. Two nodes are
// linked once per tag they share, so a pair can carry parallel links
// under different tags.
package graph

import (
	"fmt"
	"iter"
	"sort"

	"github.com/siherrmann/linker/metrics"
	"github.com/siherrmann/linker/model"
)

// NodeSource provides the nodes a link index is built from.
type NodeSource interface {
	Node(id string) (*model.Node, error)
	NodeIDs() iter.Seq[string]
}

// LinkIndex is an immutable snapshot of all links between the nodes of a
// source. Build a new one after inserts.
type LinkIndex struct {
	links  []model.Link
	byNode map[string][]model.Link
	tags   int
}

// BuildLinkIndex derives all links from the source. Nodes are bucketed by
// tag pair first, then each bucket with at least two members is expanded
// into pairwise links. Nodes sharing no tag pair never meet.
func BuildLinkIndex(source NodeSource) (*LinkIndex, error) {
	buckets := map[model.Tag][]string{}
	for id := range source.NodeIDs() {
		node, err := source.Node(id)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", model.ErrMissingNode, id, err)
		}
		for _, pair := range node.Metadata.Pairs() {
			buckets[pair] = append(buckets[pair], id)
		}
	}

	index := &LinkIndex{byNode: map[string][]model.Link{}}
	for tag, ids := range buckets {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				index.links = append(index.links, model.NewLink(ids[i], ids[j], tag))
			}
		}
		index.tags++
	}

	sort.Slice(index.links, func(i, j int) bool {
		a, b := index.links[i], index.links[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Tag.Key != b.Tag.Key {
			return a.Tag.Key < b.Tag.Key
		}
		return a.Tag.Value < b.Tag.Value
	})

	for _, link := range index.links {
		index.byNode[link.Source] = append(index.byNode[link.Source], link)
		index.byNode[link.Target] = append(index.byNode[link.Target], link)
	}

	metrics.LinksTotal.Set(float64(len(index.links)))
	metrics.GraphBuildsTotal.Inc()
	return index, nil
}

// EdgesFor returns all links touching the given id, in both directions.
// The returned slice is shared and must not be modified.
func (x *LinkIndex) EdgesFor(id string) []model.Link {
	return x.byNode[id]
}

// Links returns all links sorted by source, target and tag. The returned
// slice is shared and must not be modified.
func (x *LinkIndex) Links() []model.Link {
	return x.links
}

// Len returns the number of links in the index.
func (x *LinkIndex) Len() int {
	return len(x.links)
}

// NodeCount returns the number of nodes with at least one link.
func (x *LinkIndex) NodeCount() int {
	return len(x.byNode)
}

// TagCount returns the number of distinct tag pairs that produced links.
func (x *LinkIndex) TagCount() int {
	return x.tags
}

// Validate checks that every link endpoint resolves against the source.
func (x *LinkIndex) Validate(source NodeSource) error {
	for _, link := range x.links {
		for _, id := range []string{link.Source, link.Target} {
			_, err := source.Node(id)
			if err != nil {
				return fmt.Errorf("%w: link %s: %v", model.ErrMissingNode, link, err)
			}
		}
	}
	return nil
}
