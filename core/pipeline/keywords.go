package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/siherrmann/linker/model"
)

// stopwords are skipped during keyword extraction.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"get": true, "has": true, "him": true, "his": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "see": true,
	"two": true, "way": true, "who": true, "did": true, "they": true,
	"this": true, "that": true, "with": true, "have": true, "from": true,
	"will": true, "would": true, "there": true, "their": true, "what": true,
	"which": true, "when": true, "were": true, "been": true, "more": true,
	"some": true, "than": true, "then": true, "them": true, "these": true,
	"also": true, "into": true, "only": true, "other": true, "such": true,
	"over": true, "most": true, "after": true, "before": true, "where": true,
	"your": true, "each": true, "very": true, "just": true, "about": true,
	"because": true, "through": true, "while": true, "could": true, "should": true,
}

// KeywordTagger creates a tagger that adds the topN most frequent terms
// of a node's text under the keyword key. Terms shorter than three runes
// and stopwords are skipped.
func KeywordTagger(topN int) TagExtractFunc {
	return func(node *model.Node) (model.TagSet, error) {
		if topN <= 0 {
			return nil, fmt.Errorf("top n keywords must be positive")
		}

		counts := map[string]int{}
		words := strings.FieldsFunc(strings.ToLower(node.Text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, word := range words {
			if len(word) < 3 || stopwords[word] {
				continue
			}
			counts[word]++
		}

		terms := make([]string, 0, len(counts))
		for term := range counts {
			terms = append(terms, term)
		}
		sort.Slice(terms, func(i, j int) bool {
			if counts[terms[i]] != counts[terms[j]] {
				return counts[terms[i]] > counts[terms[j]]
			}
			return terms[i] < terms[j]
		})
		if len(terms) > topN {
			terms = terms[:topN]
		}

		tags := model.TagSet{}
		for _, term := range terms {
			tags.Add("keyword", term)
		}
		return tags, nil
	}
}
