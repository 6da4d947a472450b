// Package queries loads the benchmark query store: an ordered, read-only
// collection of questions with pre-computed ground-truth values.
package queries

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tokenbench/tokeneval/api"
)

// StoreOptions configures query store loading.
type StoreOptions struct {
	// Tokens is the valid-token set used to type string truths.
	// Defaults to api.DefaultTokenSet.
	Tokens []string
}

// Store is an immutable, ordered query collection.
type Store struct {
	queries []api.Query
	byID    map[string]int
}

type document struct {
	Queries []record `yaml:"queries"`
}

type record struct {
	ID          string    `yaml:"id"`
	Question    string    `yaml:"question"`
	Category    string    `yaml:"category"`
	Truth       yaml.Node `yaml:"truth"`
	Explanation string    `yaml:"explanation"`
}

// Load reads a query store from a YAML file.
func Load(path string, opts StoreOptions) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query store: %w", err)
	}
	defer f.Close()
	return Parse(f, opts)
}

// Parse reads a query store from a reader. Malformed documents, duplicate
// IDs, unknown categories and missing truths are load-time errors; the
// store is never partially constructed.
func Parse(r io.Reader, opts StoreOptions) (*Store, error) {
	tokens := opts.Tokens
	if len(tokens) == 0 {
		tokens = api.DefaultTokenSet
	}

	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode query store: %w", err)
	}
	if len(doc.Queries) == 0 {
		return nil, fmt.Errorf("query store contains no queries")
	}

	store := &Store{byID: make(map[string]int, len(doc.Queries))}
	for i, rec := range doc.Queries {
		if rec.ID == "" {
			return nil, fmt.Errorf("query %d: missing id", i)
		}
		if _, dup := store.byID[rec.ID]; dup {
			return nil, fmt.Errorf("query %q: duplicate id", rec.ID)
		}
		if rec.Question == "" {
			return nil, fmt.Errorf("query %q: missing question", rec.ID)
		}
		category := api.Category(rec.Category)
		if !knownCategory(category) {
			return nil, fmt.Errorf("query %q: unknown category %q", rec.ID, rec.Category)
		}

		truth, err := decodeTruth(&rec.Truth, tokens)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", rec.ID, err)
		}

		store.byID[rec.ID] = len(store.queries)
		store.queries = append(store.queries, api.Query{
			ID:          rec.ID,
			Question:    rec.Question,
			Category:    category,
			Truth:       truth,
			Explanation: rec.Explanation,
		})
	}

	return store, nil
}

// decodeTruth types the YAML truth value into the Value union: scalars
// become numbers, token symbols or text; sequences become rankings.
func decodeTruth(node *yaml.Node, tokens []string) (api.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return api.Value{}, fmt.Errorf("decode numeric truth: %w", err)
			}
			return api.NumberValue(f), nil
		case "!!str":
			s := strings.TrimSpace(node.Value)
			if s == "" {
				return api.Value{}, fmt.Errorf("empty truth string")
			}
			for _, tok := range tokens {
				if strings.EqualFold(tok, s) {
					return api.TokenValue(tok), nil
				}
			}
			return api.TextValue(s), nil
		default:
			return api.Value{}, fmt.Errorf("unsupported truth scalar %q", node.Tag)
		}
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return api.Value{}, fmt.Errorf("decode ranking truth: %w", err)
		}
		if len(list) == 0 {
			return api.Value{}, fmt.Errorf("empty ranking truth")
		}
		upper := make([]string, len(list))
		for i, s := range list {
			upper[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		return api.RankingValue(upper), nil
	case 0:
		return api.Value{}, fmt.Errorf("missing truth")
	default:
		return api.Value{}, fmt.Errorf("unsupported truth node kind %d", node.Kind)
	}
}

func knownCategory(c api.Category) bool {
	for _, known := range api.Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Queries returns the queries in store order. Callers must not modify
// the returned slice.
func (s *Store) Queries() []api.Query { return s.queries }

// Get looks up a query by ID.
func (s *Store) Get(id string) (api.Query, bool) {
	i, ok := s.byID[id]
	if !ok {
		return api.Query{}, false
	}
	return s.queries[i], true
}

// Lookup looks up a query by ID, returning an error wrapping
// api.ErrQueryNotFound when the store does not contain it.
func (s *Store) Lookup(id string) (api.Query, error) {
	q, ok := s.Get(id)
	if !ok {
		return api.Query{}, fmt.Errorf("%w: %q", api.ErrQueryNotFound, id)
	}
	return q, nil
}

// Len returns the number of queries in the store.
func (s *Store) Len() int { return len(s.queries) }
