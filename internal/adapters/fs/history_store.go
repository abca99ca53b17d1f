package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

const (
	historyExt        = ".json"
	historyDateLayout = "2006-01-02"
	// MaxHistoryFilesPerDay counts the base name plus the _01.._98 disambiguators
	MaxHistoryFilesPerDay = 99
)

// HistoryStore is the append-only deployment history of one network,
// one file per deployment under configs/<network>/states.
type HistoryStore struct {
	dir     string
	persist bool
	now     func() time.Time
	log     *slog.Logger
}

// NewHistoryStore creates a history store over dir. now supplies the date used for new file names.
func NewHistoryStore(dir string, persist bool, now func() time.Time, log *slog.Logger) *HistoryStore {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &HistoryStore{dir: dir, persist: persist, now: now, log: log}
}

// Dir returns the history directory
func (s *HistoryStore) Dir() string {
	return s.dir
}

// Append writes entry to a freshly generated file name and returns that name.
// The file is created exclusively, so a concurrent writer that took the same
// name makes Append fail with ErrAlreadyExists instead of overwriting.
// Without persistence nothing is written and the name that would have been used is returned.
func (s *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) (string, error) {
	if _, err := ensureDir(s.dir, s.persist); err != nil {
		return "", err
	}

	name, err := GenerateFileName(s.dir, s.now())
	if err != nil {
		return "", err
	}

	if !s.persist {
		s.log.Debug("dry run, history entry not written", "file", name)
		return name, nil
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal history entry: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	if err := writeExclusive(path, data); err != nil {
		return "", err
	}

	s.log.Debug("history entry written", "file", path)
	return name, nil
}

// Latest returns the most recently modified history file
func (s *HistoryStore) Latest(_ context.Context) (string, bool, error) {
	return ResolveLatestFile(s.dir)
}

// List returns every history file, newest first
func (s *HistoryStore) List(_ context.Context) ([]domain.HistoryFile, error) {
	return listHistoryFiles(s.dir)
}

// Read loads a single history file by name
func (s *HistoryStore) Read(_ context.Context, name string) (*domain.HistoryEntry, error) {
	if name == "" || filepath.Base(name) != name || filepath.Ext(name) != historyExt {
		return nil, domain.NewValidationError("history file name", name, "expected a plain <date>.json file name")
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("history file %s: %w", path, domain.ErrNotFound)
		}
		return nil, domain.NewConfigurationError(path, "failed to read history file", err)
	}

	var entry domain.HistoryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, domain.NewConfigurationError(path, "malformed history file", err)
	}
	return &entry, nil
}

// ResolveLatestFile returns the regular .json file in dir with the newest
// modification time. Equal times are broken by the greater file name, which
// for generated names is the later one of the day. A missing dir has no latest file.
func ResolveLatestFile(dir string) (string, bool, error) {
	files, err := listHistoryFiles(dir)
	if err != nil {
		return "", false, err
	}
	if len(files) == 0 {
		return "", false, nil
	}
	return files[0].Name, true, nil
}

// GenerateFileName returns the first free name for date (in UTC) in dir:
// YYYY-MM-DD.json, then YYYY-MM-DD_01.json up to YYYY-MM-DD_98.json.
func GenerateFileName(dir string, date time.Time) (string, error) {
	day := date.UTC().Format(historyDateLayout)

	for n := 0; n < MaxHistoryFilesPerDay; n++ {
		name := day + historyExt
		if n > 0 {
			name = fmt.Sprintf("%s_%02d%s", day, n, historyExt)
		}

		taken, err := pathExists(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
	}

	return "", fmt.Errorf("all %d history file names for %s are taken in %s: %w", MaxHistoryFilesPerDay, day, dir, domain.ErrResourceExhausted)
}

// writeExclusive creates path and writes data, failing if path already exists
func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("history file %s: %w", path, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create history file %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write history file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close history file %s: %w", path, err)
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

func listHistoryFiles(dir string) ([]domain.HistoryFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewConfigurationError(dir, "failed to read history directory", err)
	}

	var files []domain.HistoryFile
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != historyExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, domain.HistoryFile{
			Name:     entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].Modified.Equal(files[j].Modified) {
			return files[i].Modified.After(files[j].Modified)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// HistoryRepository opens history stores under <data>/configs/<network>/states
type HistoryRepository struct {
	configsDir string
	now        func() time.Time
	log        *slog.Logger
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(cfg *config.RuntimeConfig, log *slog.Logger) *HistoryRepository {
	return &HistoryRepository{
		configsDir: filepath.Join(cfg.DataDir, "configs"),
		now:        time.Now,
		log:        log.With("component", "HistoryRepository"),
	}
}

// Open returns the network's history store. The states directory is created
// only when persisting; a dry run leaves the disk untouched.
func (r *HistoryRepository) Open(_ context.Context, network string, persist bool) (usecase.DeploymentHistoryStore, error) {
	if err := domain.ValidateNetworkName(network); err != nil {
		return nil, err
	}
	dir := filepath.Join(r.configsDir, network, "states")
	if _, err := ensureDir(dir, persist); err != nil {
		return nil, err
	}
	return NewHistoryStore(dir, persist, r.now, r.log), nil
}

// Ensure HistoryRepository implements DeploymentHistoryRepository
var _ usecase.DeploymentHistoryRepository = (*HistoryRepository)(nil)
var _ usecase.DeploymentHistoryStore = (*HistoryStore)(nil)
