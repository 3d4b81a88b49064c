// Package keyword maintains the set of topic keywords an essay is expected to
// use and counts how often each appears.
package keyword

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"iga/internal/atomicfile"
	"iga/internal/domain"
	"iga/internal/port"
)

// Index is a lower-cased keyword set, optionally backed by a file holding a
// single comma-separated line. It is safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	words []string
	path  string
}

// New returns an empty in-memory Index.
func New() *Index {
	return &Index{}
}

// Load reads an Index from a keyword file. Later mutations are written back
// to the same file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reading keyword file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading keyword file %s: %w", path, err)
	}
	return &Index{words: parse(string(data)), path: path}, nil
}

// NewFile returns an empty Index that persists to path, creating the file.
func NewFile(path string) (*Index, error) {
	ix := &Index{path: path}
	if err := ix.persist(nil); err != nil {
		return nil, err
	}
	return ix, nil
}

// Open loads the keyword file at path, creating an empty one when it does not
// exist yet. An empty path yields an in-memory Index.
func Open(path string) (*Index, error) {
	if path == "" {
		return New(), nil
	}
	ix, err := Load(path)
	if errors.Is(err, domain.ErrNotFound) {
		return NewFile(path)
	}
	return ix, err
}

func parse(content string) []string {
	var words []string
	seen := map[string]struct{}{}
	for _, w := range strings.Split(content, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// Path returns the backing file, or "" for an in-memory Index.
func (ix *Index) Path() string {
	return ix.path
}

// Keywords returns a copy of the keyword list in insertion order.
func (ix *Index) Keywords() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.words...)
}

// Occurrence counts each keyword among the whitespace-separated tokens of
// text, compared case-insensitively. Tokens are not stemmed or stripped of
// punctuation.
func (ix *Index) Occurrence(text string) []port.KeywordCount {
	ix.mu.RLock()
	words := append([]string(nil), ix.words...)
	ix.mu.RUnlock()

	tokens := map[string]int{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tokens[tok]++
	}
	out := make([]port.KeywordCount, len(words))
	for i, w := range words {
		out[i] = port.KeywordCount{Keyword: w, Count: tokens[w]}
	}
	return out
}

// Add inserts word. Adding an existing keyword is a no-op.
func (ix *Index) Add(word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, existing := range ix.words {
		if existing == w {
			return nil
		}
	}
	next := append(append([]string(nil), ix.words...), w)
	return ix.commit(next)
}

// Remove deletes word. Removing an absent keyword is a no-op.
func (ix *Index) Remove(word string) error {
	w := strings.ToLower(strings.TrimSpace(word))
	ix.mu.Lock()
	defer ix.mu.Unlock()
	next := make([]string, 0, len(ix.words))
	for _, existing := range ix.words {
		if existing != w {
			next = append(next, existing)
		}
	}
	if len(next) == len(ix.words) {
		return nil
	}
	return ix.commit(next)
}

// Clear removes every keyword.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.commit(nil)
}

// commit persists next and only then makes it the in-memory set.
// Callers hold ix.mu.
func (ix *Index) commit(next []string) error {
	if err := ix.persist(next); err != nil {
		return err
	}
	ix.words = next
	return nil
}

func (ix *Index) persist(words []string) error {
	if ix.path == "" {
		return nil
	}
	if err := atomicfile.WriteFile(ix.path, []byte(strings.Join(words, ",")), 0o644); err != nil {
		return fmt.Errorf("writing keyword file: %w", err)
	}
	return nil
}

func normalize(word string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return "", fmt.Errorf("%w: keyword is empty", domain.ErrInvalidKeyword)
	}
	if strings.Contains(w, ",") || strings.IndexFunc(w, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q must be a single token without commas", domain.ErrInvalidKeyword, word)
	}
	return w, nil
}
