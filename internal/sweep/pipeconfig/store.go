package pipeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/google/renameio/v2"
)

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewConfigWrap("read pipeline config", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.NewConfigWrap("parse pipeline config", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validate(doc *Document) error {
	for i, st := range doc.Pipeline {
		if st.Name == "" {
			return apperr.NewConfig(fmt.Sprintf("pipeline stage at index %d has no name", i))
		}
		if p := st.Probability(); p < 0 || p > 1 {
			return apperr.NewConfig(fmt.Sprintf("pipeline stage %q: probability must be between 0 and 1, got %g", st.Name, p))
		}
	}
	return nil
}

// Mutate returns a copy of doc with the sweep fields replaced. A nil threads
// removes num_threads from the document.
func Mutate(doc *Document, iteration int, threads *int) *Document {
	out := doc.Clone()
	out.Iterations = iteration
	out.NumThreads = nil
	if threads != nil {
		n := *threads
		out.NumThreads = &n
	}
	return out
}

// Persist atomically replaces path with doc. A reader opening path while
// Persist runs sees either the previous file or the complete new one.
func Persist(doc *Document, path string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal pipeline config: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent pipeline config: %w", err)
	}
	buf.WriteByte('\n')
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write pipeline config: %w", err)
	}
	return nil
}

// Store owns the configuration file shared with the pipeline process.
type Store struct {
	path string
	base *Document
}

func NewStore(path string) (*Store, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, base: doc}, nil
}

func (s *Store) Path() string { return s.path }

// Base returns a copy of the document as loaded.
func (s *Store) Base() *Document { return s.base.Clone() }

// Apply mutates the base document for one sweep point and persists it. The
// file is complete on disk when Apply returns.
func (s *Store) Apply(iteration int, threads *int) (*Document, error) {
	doc := Mutate(s.base, iteration, threads)
	if err := Persist(doc, s.path); err != nil {
		return nil, err
	}
	return doc, nil
}
