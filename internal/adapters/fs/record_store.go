package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// RecordStore keeps the current proxy/implementation pair per contract name
// for one network, backed by contracts/<network>.json.
type RecordStore struct {
	path    string
	persist bool
	records domain.DeploymentRecords
}

// LoadRecords reads a record file. A missing file yields an empty mapping.
func LoadRecords(path string) (domain.DeploymentRecords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DeploymentRecords{}, nil
		}
		return nil, domain.NewConfigurationError(path, "failed to read deployment records", err)
	}

	var records domain.DeploymentRecords
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewConfigurationError(path, "malformed deployment records", err)
	}
	if records == nil {
		records = domain.DeploymentRecords{}
	}
	return records, nil
}

// OpenRecordStore loads the snapshot at path. With persist false, Set only
// changes the in-memory snapshot.
func OpenRecordStore(path string, persist bool) (*RecordStore, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return &RecordStore{path: path, persist: persist, records: records}, nil
}

// Get returns the record stored under name
func (s *RecordStore) Get(name string) (domain.DeploymentRecord, bool) {
	record, ok := s.records[name]
	return record, ok
}

// Set replaces the record under name and rewrites the whole file when persisting
func (s *RecordStore) Set(_ context.Context, name string, record domain.DeploymentRecord) error {
	s.records[name] = record
	if !s.persist {
		return nil
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment records: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write deployment records %s: %w", s.path, err)
	}
	return nil
}

// Records returns a copy of the snapshot
func (s *RecordStore) Records() domain.DeploymentRecords {
	return lo.Assign(s.records)
}

// Path returns the backing file
func (s *RecordStore) Path() string {
	return s.path
}

// RecordRepository opens record stores under <data>/contracts
type RecordRepository struct {
	dir string
	log *slog.Logger
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(cfg *config.RuntimeConfig, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		dir: filepath.Join(cfg.DataDir, "contracts"),
		log: log.With("component", "RecordRepository"),
	}
}

// Open bootstraps the contracts directory and loads the network's records
func (r *RecordRepository) Open(ctx context.Context, network string, persist bool) (usecase.DeploymentRecordStore, error) {
	if err := domain.ValidateNetworkName(network); err != nil {
		return nil, err
	}
	if _, err := ensureDir(r.dir, true); err != nil {
		return nil, err
	}

	path := filepath.Join(r.dir, network+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		r.log.Debug("deployment file not found, a new one will be created", "path", path)
	}

	store, err := OpenRecordStore(path, persist)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Ensure RecordRepository implements DeploymentRecordRepository
var _ usecase.DeploymentRecordRepository = (*RecordRepository)(nil)
var _ usecase.DeploymentRecordStore = (*RecordStore)(nil)
