package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"site-cloner/pkg/log"
	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

const (
	projectKeyPrefix = "project:" // project:<uuid>
	versionKeyPrefix = "version:" // version:<projectID>:<framework>
	projectsDBDir    = "projects_db"

	// Extracted content fields are capped at persist time so a single
	// project record stays well under Badger's value thresholds.
	maxExtractedFieldLen = 50000

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// BadgerStore implements ProjectStore using BadgerDB with JSON values.
type BadgerStore struct {
	db  *badger.DB
	log *logrus.Entry
	now func() time.Time
}

// NewBadgerStore opens (or creates) the project database under stateDir and
// starts a value-log GC loop bound to ctx.
func NewBadgerStore(ctx context.Context, stateDir string, logger *logrus.Entry) (*BadgerStore, error) {
	dbPath := filepath.Join(stateDir, projectsDBDir)
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("cannot create state directory %s: %w", dbPath, err)
	}

	entry := logger.WithField("component", "storage")
	badgerLogger := log.NewBadgerLogrusAdapter(entry.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions(dbPath).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database at %s: %v", utils.ErrDatabase, dbPath, err)
	}

	store := &BadgerStore{db: db, log: entry, now: time.Now}
	go store.runGC(ctx)

	entry.WithField("path", dbPath).Info("Project database initialized")
	return store, nil
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
// Concurrent MVCC transactions on overlapping keys can return badger.ErrConflict;
// these resolve in microseconds, so a tight retry loop is sufficient.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// CreateProject implements ProjectStore
func (s *BadgerStore) CreateProject(p *models.Project) error {
	return s.putJSON(projectKey(p.ID), p)
}

// GetProject implements ProjectStore
func (s *BadgerStore) GetProject(id string) (*models.Project, error) {
	var p models.Project
	found, err := s.getJSON(projectKey(id), &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", utils.ErrProjectNotFound, id)
	}
	return &p, nil
}

// UpdateProjectStatus implements ProjectStore
func (s *BadgerStore) UpdateProjectStatus(id string, status models.ProjectStatus) error {
	return s.mutateProject(id, func(p *models.Project) {
		p.Status = status
	})
}

// SaveAnalysis implements ProjectStore
func (s *BadgerStore) SaveAnalysis(id string, analysis *models.WebsiteAnalysis) error {
	techJSON, err := json.Marshal(analysis.DetectedTechnology)
	if err != nil {
		return fmt.Errorf("%w: encoding detected technology: %v", utils.ErrDatabase, err)
	}
	return s.mutateProject(id, func(p *models.Project) {
		p.Status = models.StatusAnalyzed
		p.DetectedTechnology = string(techJSON)
		p.ExtractedHTML = truncateField(analysis.HTML)
		p.ExtractedCSS = truncateField(analysis.CSS)
		p.ExtractedJS = truncateField(analysis.JavaScript)
		p.Screenshots = analysis.Screenshots
	})
}

// ListProjects implements ProjectStore
func (s *BadgerStore) ListProjects() ([]*models.Project, error) {
	var projects []*models.Project
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(projectKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p models.Project
				if errJSON := json.Unmarshal(val, &p); errJSON != nil {
					s.log.Warnf("Skipping undecodable project record %q: %v", it.Item().Key(), errJSON)
					return nil
				}
				projects = append(projects, &p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing projects: %v", utils.ErrDatabase, err)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// SaveVersion implements ProjectStore
func (s *BadgerStore) SaveVersion(v *models.GeneratedVersion) error {
	return s.putJSON(versionKey(v.ProjectID, v.Framework), v)
}

// GetVersion implements ProjectStore
func (s *BadgerStore) GetVersion(projectID string, fw models.Framework) (*models.GeneratedVersion, error) {
	var v models.GeneratedVersion
	found, err := s.getJSON(versionKey(projectID, fw), &v)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: project %s framework %s", utils.ErrVersionNotFound, projectID, fw)
	}
	return &v, nil
}

// ListVersions implements ProjectStore
func (s *BadgerStore) ListVersions(projectID string) ([]*models.GeneratedVersion, error) {
	prefix := versionKeyPrefix + projectID + ":"
	var versions []*models.GeneratedVersion

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var v models.GeneratedVersion
				if errJSON := json.Unmarshal(val, &v); errJSON != nil {
					s.log.Warnf("Skipping undecodable version record %q: %v", it.Item().Key(), errJSON)
					return nil
				}
				versions = append(versions, &v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing versions for %s: %v", utils.ErrDatabase, projectID, err)
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Framework < versions[j].Framework
	})
	return versions, nil
}

// Close implements ProjectStore
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// --- helpers ---

func projectKey(id string) []byte {
	return []byte(projectKeyPrefix + id)
}

func versionKey(projectID string, fw models.Framework) []byte {
	return []byte(versionKeyPrefix + projectID + ":" + string(fw))
}

// truncateField caps the string at maxExtractedFieldLen bytes, backing up to
// a rune boundary so a multi-byte character is never split.
func truncateField(s string) string {
	if len(s) <= maxExtractedFieldLen {
		return s
	}
	cut := maxExtractedFieldLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// mutateProject loads, mutates, and rewrites a project in one transaction,
// refreshing UpdatedAt.
func (s *BadgerStore) mutateProject(id string, mutate func(*models.Project)) error {
	key := projectKey(id)
	err := s.dbUpdate(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", utils.ErrProjectNotFound, id)
		}
		if errGet != nil {
			return errGet
		}

		var p models.Project
		if errVal := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		}); errVal != nil {
			return errVal
		}

		mutate(&p)
		p.UpdatedAt = s.now()

		data, errJSON := json.Marshal(&p)
		if errJSON != nil {
			return errJSON
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, utils.ErrProjectNotFound) {
			return err
		}
		return fmt.Errorf("%w: updating project %s: %v", utils.ErrDatabase, id, err)
	}
	return nil
}

func (s *BadgerStore) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding %q: %v", utils.ErrDatabase, key, err)
	}
	err = s.dbUpdate(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("%w: writing %q: %v", utils.ErrDatabase, key, err)
	}
	return nil
}

// getJSON reads and decodes a key. Returns found=false when absent.
func (s *BadgerStore) getJSON(key []byte, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return errGet
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return false, fmt.Errorf("%w: reading %q: %v", utils.ErrDatabase, key, err)
	}
	return found, nil
}

// runGC triggers value-log garbage collection until ctx is done.
func (s *BadgerStore) runGC(ctx context.Context) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !strings.Contains(err.Error(), "Closed") {
				s.log.Debugf("Value log GC: %v", err)
			}
		}
	}
}
