package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/siherrmann/linker/helper"
)

// Tag is a single key/value pair attached to a node.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String returns the tag as "key=value".
func (t Tag) String() string {
	return fmt.Sprintf("%s=%s", t.Key, t.Value)
}

// TagSet holds the tags of a node, keyed by tag key. A key can carry
// multiple values (eg. several authors), values per key stay unique.
type TagSet map[string][]string

// NewTagSet creates a TagSet from the given pairs.
func NewTagSet(pairs ...Tag) TagSet {
	tags := TagSet{}
	for _, pair := range pairs {
		tags.Add(pair.Key, pair.Value)
	}
	return tags
}

// Add adds a value under the given key. Duplicate values for a key are ignored.
func (t TagSet) Add(key string, value string) {
	for _, existing := range t[key] {
		if existing == value {
			return
		}
	}
	t[key] = append(t[key], value)
}

// Has reports whether the set contains the exact key/value pair.
func (t TagSet) Has(key string, value string) bool {
	for _, existing := range t[key] {
		if existing == value {
			return true
		}
	}
	return false
}

// Pairs returns all pairs sorted by key and then value.
func (t TagSet) Pairs() []Tag {
	pairs := []Tag{}
	for key, values := range t {
		for _, value := range values {
			pairs = append(pairs, Tag{Key: key, Value: value})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Key != pairs[j].Key {
			return pairs[i].Key < pairs[j].Key
		}
		return pairs[i].Value < pairs[j].Value
	})
	return pairs
}

// Merge adds all pairs of other into the set.
func (t TagSet) Merge(other TagSet) {
	for key, values := range other {
		for _, value := range values {
			t.Add(key, value)
		}
	}
}

// Clone returns an independent copy of the set. A nil set clones to an
// empty one.
func (t TagSet) Clone() TagSet {
	clone := TagSet{}
	for key, values := range t {
		for _, value := range values {
			clone.Add(key, value)
		}
	}
	return clone
}

// Value implements the driver.Valuer interface for database storage.
func (t TagSet) Value() (driver.Value, error) {
	return t.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval.
func (t *TagSet) Scan(value interface{}) error {
	return t.Unmarshal(value)
}

// Marshal marshals the TagSet to JSON.
func (t TagSet) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// Unmarshal unmarshals JSON data into the TagSet.
func (t *TagSet) Unmarshal(value interface{}) error {
	if value == nil {
		*t = TagSet{}
		return nil
	}

	if tags, ok := value.(TagSet); ok {
		*t = tags
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, t)
}
