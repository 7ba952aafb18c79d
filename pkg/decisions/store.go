// Package decisions persists operator answers to irreversible prompts so a
// question answered once is never asked again.
//
// The store is loaded once, and every new decision is written back
// immediately by atomically replacing the file. Any read or write failure is
// a DECISION_STORE error, which callers must treat as fatal.
package decisions

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/logging"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Resolution is the chosen outcome for a conflict
type Resolution string

const (
	Replace Resolution = "replace"
	Skip    Resolution = "skip"
)

// ParseResolution validates a resolution name
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case Replace, Skip:
		return r, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown resolution %q (expected replace or skip)", s)
}

// Decision is one recorded answer
type Decision struct {
	Resolution Resolution `json:"resolution"`
	Always     bool       `json:"always"`
	DecidedAt  time.Time  `json:"decided_at"`
}

// Entry pairs a key with its decision
type Entry struct {
	Key      string
	Decision Decision
}

const (
	formatVersion = 1
	wildcard      = "*"
	keySeparator  = ":"
)

type document struct {
	Version   int                 `json:"version"`
	Decisions map[string]Decision `json:"decisions"`
}

// Store is the durable key -> decision mapping
type Store struct {
	fs     filesystem.FS
	path   string
	doc    document
	now    func() time.Time
	logger zerolog.Logger
}

// SymlinkKey is the key for a conflict at the given symlink target
func SymlinkKey(target string) string {
	return "symlink" + keySeparator + target
}

// WildcardKey returns the "always" key of key's namespace
func WildcardKey(key string) string {
	namespace, _, found := strings.Cut(key, keySeparator)
	if !found {
		return wildcard
	}
	return namespace + keySeparator + wildcard
}

// Open loads the store at path. A missing file yields an empty store.
func Open(fsys filesystem.FS, path string) (*Store, error) {
	s := &Store{
		fs:     fsys,
		path:   path,
		doc:    document{Version: formatVersion, Decisions: map[string]Decision{}},
		now:    time.Now,
		logger: logging.GetLogger("decisions"),
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", path).Msg("No decision store yet, starting empty")
			return s, nil
		}
		return nil, errors.Wrapf(err, errors.ErrDecisionStore, "failed to read decision store %s", path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDecisionStore, "decision store %s is corrupt", path)
	}
	if doc.Version > formatVersion {
		return nil, errors.Newf(errors.ErrDecisionStore,
			"decision store %s has version %d, newer than supported version %d", path, doc.Version, formatVersion)
	}
	if doc.Decisions == nil {
		doc.Decisions = map[string]Decision{}
	}
	doc.Version = formatVersion
	s.doc = doc

	s.logger.Debug().Str("path", path).Int("decisions", len(doc.Decisions)).Msg("Decision store loaded")
	return s, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the decision for key, falling back to the "always"
// decision of key's namespace.
func (s *Store) Lookup(key string) (Decision, bool) {
	if d, ok := s.doc.Decisions[key]; ok {
		return d, true
	}
	d, ok := s.doc.Decisions[WildcardKey(key)]
	return d, ok
}

// Record stores a resolution for key and persists it. When always is set
// the decision is stored under the namespace wildcard instead, covering
// every future key of the namespace.
func (s *Store) Record(key string, resolution Resolution, always bool) error {
	if _, err := ParseResolution(string(resolution)); err != nil {
		return errors.Wrap(err, errors.ErrDecisionStore, "refusing to record invalid decision")
	}

	storeKey := key
	if always {
		storeKey = WildcardKey(key)
	}

	s.doc.Decisions[storeKey] = Decision{
		Resolution: resolution,
		Always:     always,
		DecidedAt:  s.now().UTC(),
	}

	s.logger.Info().
		Str("key", storeKey).
		Str("resolution", string(resolution)).
		Bool("always", always).
		Msg("Recording decision")

	return s.save()
}

// Forget removes the decision stored under exactly key. It reports whether
// anything was removed.
func (s *Store) Forget(key string) (bool, error) {
	if _, ok := s.doc.Decisions[key]; !ok {
		return false, nil
	}
	delete(s.doc.Decisions, key)
	return true, s.save()
}

// Clear removes every decision
func (s *Store) Clear() error {
	s.doc.Decisions = map[string]Decision{}
	return s.save()
}

// All returns every decision sorted by key
func (s *Store) All() []Entry {
	entries := make([]Entry, 0, len(s.doc.Decisions))
	for k, d := range s.doc.Decisions {
		entries = append(entries, Entry{Key: k, Decision: d})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrDecisionStore, "failed to encode decision store")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDecisionStore, "failed to create directory for %s", s.path)
	}
	if err := s.fs.WriteFileAtomic(s.path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrDecisionStore, "failed to write decision store %s", s.path)
	}
	return nil
}
