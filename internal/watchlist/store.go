package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("symbol not in watchlist")
	ErrDuplicate = errors.New("symbol already in watchlist")
	ErrInvalid   = errors.New("symbol is required")
)

// Item is one watched symbol
type Item struct {
	ID      string    `json:"id"`
	Symbol  string    `json:"symbol"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

type document struct {
	Items []Item `json:"items"`
}

// Store persists the watchlist as a JSON file.
// Every mutation rewrites the file through a temp file + rename under one mutex.
// ⭐ SSOT: 관심종목 파일 접근은 여기서만
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store for the file at path. The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// List returns the items ordered by insertion time
func (s *Store) List() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// Add inserts a symbol (upper-cased). Adding an existing symbol returns ErrDuplicate.
func (s *Store) Add(symbol, note string) (Item, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return Item{}, ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return Item{}, err
	}
	if indexOf(doc.Items, symbol) >= 0 {
		return Item{}, fmt.Errorf("%s: %w", symbol, ErrDuplicate)
	}

	item := Item{
		ID:      uuid.NewString(),
		Symbol:  symbol,
		Note:    strings.TrimSpace(note),
		AddedAt: s.now().UTC(),
	}
	doc.Items = append(doc.Items, item)

	if err := s.write(doc); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Remove deletes a symbol
func (s *Store) Remove(symbol string) error {
	symbol = normalize(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	i := indexOf(doc.Items, symbol)
	if i < 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)

	return s.write(doc)
}

// read loads the file; a missing file is an empty watchlist
func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &document{Items: []Item{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	doc := &document{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("decode watchlist %s: %w", s.path, err)
		}
	}
	if doc.Items == nil {
		doc.Items = []Item{}
	}
	sort.SliceStable(doc.Items, func(i, j int) bool {
		return doc.Items[i].AddedAt.Before(doc.Items[j].AddedAt)
	})
	return doc, nil
}

func (s *Store) write(doc *document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".watchlist-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace watchlist: %w", err)
	}
	return nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func indexOf(items []Item, symbol string) int {
	for i, it := range items {
		if it.Symbol == symbol {
			return i
		}
	}
	return -1
}
