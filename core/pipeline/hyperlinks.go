package pipeline

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/siherrmann/linker/model"
)

var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*["']([^"'#]+)["']`)

// HyperlinkTagger creates a tagger that collects hyperlinks as tags under
// the hyperlink key. It tags the node's own urls from its metadata and
// every href found in the text, so pages linking to each other or to the
// same target end up sharing a tag pair.
func HyperlinkTagger() TagExtractFunc {
	return func(node *model.Node) (model.TagSet, error) {
		tags := model.TagSet{}

		var base *url.URL
		for _, self := range node.Metadata["url"] {
			parsed, err := url.Parse(self)
			if err != nil {
				continue
			}
			if base == nil {
				base = parsed
			}
			tags.Add("hyperlink", normalizeURL(parsed))
		}

		for _, match := range hrefPattern.FindAllStringSubmatch(node.Text, -1) {
			parsed, err := url.Parse(strings.TrimSpace(match[1]))
			if err != nil {
				continue
			}
			if base != nil {
				parsed = base.ResolveReference(parsed)
			}
			if parsed.Host == "" {
				continue
			}
			tags.Add("hyperlink", normalizeURL(parsed))
		}
		return tags, nil
	}
}

// normalizeURL strips fragments and trailing slashes so the same target
// always produces the same tag value.
func normalizeURL(u *url.URL) string {
	clean := *u
	clean.Fragment = ""
	return strings.TrimSuffix(clean.String(), "/")
}
