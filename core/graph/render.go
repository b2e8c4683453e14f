package graph

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/siherrmann/linker/model"
)

// RenderLinksTable writes all links of the index as an aligned table.
func (x *LinkIndex) RenderLinksTable(w io.Writer) error {
	_, err := color.New(color.FgCyan, color.Bold).Fprintln(w, "Derived links")
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, err = fmt.Fprintln(tw, "SOURCE\tTARGET\tTAG")
	if err != nil {
		return err
	}
	for _, link := range x.links {
		_, err = fmt.Fprintf(tw, "%s\t%s\t%s\n", link.Source, link.Target, link.Tag)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// RenderTagTree writes the nodes of the index grouped by the tag that
// links them, as a tree per tag.
func (x *LinkIndex) RenderTagTree(w io.Writer) error {
	members := map[model.Tag]map[string]bool{}
	for _, link := range x.links {
		if members[link.Tag] == nil {
			members[link.Tag] = map[string]bool{}
		}
		members[link.Tag][link.Source] = true
		members[link.Tag][link.Target] = true
	}

	tags := make([]model.Tag, 0, len(members))
	for tag := range members {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Key != tags[j].Key {
			return tags[i].Key < tags[j].Key
		}
		return tags[i].Value < tags[j].Value
	})

	for _, tag := range tags {
		_, err := color.New(color.FgYellow).Fprintln(w, tag.String())
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(members[tag]))
		for id := range members[tag] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for i, id := range ids {
			prefix := "├── "
			if i == len(ids)-1 {
				prefix = "└── "
			}
			_, err = fmt.Fprintf(w, "%s%s\n", prefix, id)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
