package pipeline

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/linker/helper"
	"github.com/siherrmann/linker/model"
)

// EntityTagger creates a tagger that runs named entity recognition over a
// node's text and adds the found entities as tags. Persons, organizations
// and locations get their own tag key, everything else lands under misc.
func EntityTagger() (TagExtractFunc, error) {
	// Using KnightsAnalytics optimized distilbert-NER model
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(node *model.Node) (model.TagSet, error) {
		result, err := nerPipeline.RunPipeline([]string{node.Text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		tags := model.TagSet{}
		if len(result.Entities) == 0 {
			return tags, nil
		}

		for _, entity := range result.Entities[0] {
			word := strings.TrimSpace(entity.Word)
			if word == "" {
				continue
			}
			tags.Add(entityTagKey(normalizeEntityType(entity.Entity)), word)
		}
		return tags, nil
	}, nil
}

// normalizeEntityType removes B- and I- prefixes from NER labels
func normalizeEntityType(label string) string {
	if strings.HasPrefix(label, "B-") {
		return label[2:]
	}
	if strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}

// entityTagKey maps a NER label to the tag key entities are stored under.
func entityTagKey(label string) string {
	switch label {
	case "PER":
		return "person"
	case "ORG":
		return "organization"
	case "LOC":
		return "location"
	default:
		return "misc"
	}
}
