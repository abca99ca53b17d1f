package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/domain/models"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ChainID(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) TokenMetadata(ctx context.Context, token common.Address) (*domain.TokenMetadata, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenMetadata), args.Error(1)
}

func (m *MockChainClient) ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error) {
	args := m.Called(ctx, proxy)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockChainClient) DeployProxy(ctx context.Context, req usecase.DeployProxyRequest) (*usecase.DeployProxyResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeployProxyResult), args.Error(1)
}

func (m *MockChainClient) Close() {
	m.Called()
}

// MockConnector is a mock implementation of ChainConnector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Dial(ctx context.Context, rpcURL string) (usecase.ChainClient, error) {
	args := m.Called(ctx, rpcURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainClient), args.Error(1)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

func (m *MockNetworkResolver) GetNetworks() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockForkManager is a mock implementation of ForkManager
type MockForkManager struct {
	mock.Mock
}

func (m *MockForkManager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockForkManager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockForkManager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnvilStatus), args.Error(1)
}

func (m *MockForkManager) SetBalance(ctx context.Context, instance *domain.AnvilInstance, account common.Address, wei *big.Int) error {
	return m.Called(ctx, instance, account, wei).Error(0)
}

// MockPrompter is a mock implementation of Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) SelectNetwork(ctx context.Context, networks []string) (string, error) {
	args := m.Called(ctx, networks)
	return args.String(0), args.Error(1)
}

// MockDeployConfigRepository is a mock implementation of DeployConfigRepository
type MockDeployConfigRepository struct {
	mock.Mock
}

func (m *MockDeployConfigRepository) Load(ctx context.Context, network string) (*domain.DeploymentConfig, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentConfig), args.Error(1)
}

// stubArtifacts returns an empty artifact for every known name
type stubArtifacts map[string]*models.Artifact

func (s stubArtifacts) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	artifact, ok := s[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return artifact, nil
}

// memRecordStore is an in-memory DeploymentRecordStore
type memRecordStore struct {
	records domain.DeploymentRecords
	sets    int
}

func (s *memRecordStore) Get(name string) (domain.DeploymentRecord, bool) {
	r, ok := s.records[name]
	return r, ok
}

func (s *memRecordStore) Set(_ context.Context, name string, record domain.DeploymentRecord) error {
	s.records[name] = record
	s.sets++
	return nil
}

func (s *memRecordStore) Records() domain.DeploymentRecords { return s.records }
func (s *memRecordStore) Path() string                      { return "contracts/test.json" }

// memRecordRepository hands out one memRecordStore and remembers how it was opened
type memRecordRepository struct {
	store   *memRecordStore
	opened  bool
	persist bool
	err     error
}

func newMemRecordRepository() *memRecordRepository {
	return &memRecordRepository{store: &memRecordStore{records: domain.DeploymentRecords{}}}
}

func (r *memRecordRepository) Open(_ context.Context, _ string, persist bool) (usecase.DeploymentRecordStore, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.opened = true
	r.persist = persist
	return r.store, nil
}

// memHistoryStore is an in-memory DeploymentHistoryStore; names are assigned in order
type memHistoryStore struct {
	entries map[string]domain.HistoryEntry
	order   []string
	// latest overrides the last appended name as the latest file
	latest string
	err    error
}

func (s *memHistoryStore) Append(_ context.Context, entry domain.HistoryEntry) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	name := "2024-05-01.json"
	if n := len(s.order); n > 0 {
		name = "2024-05-01_" + string(rune('0'+n/10)) + string(rune('0'+n%10)) + ".json"
	}
	s.entries[name] = entry
	s.order = append(s.order, name)
	return name, nil
}

func (s *memHistoryStore) Latest(_ context.Context) (string, bool, error) {
	if s.latest != "" {
		return s.latest, true, nil
	}
	if len(s.order) == 0 {
		return "", false, nil
	}
	return s.order[len(s.order)-1], true, nil
}

func (s *memHistoryStore) List(_ context.Context) ([]domain.HistoryFile, error) {
	names := append([]string(nil), s.order...)
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	files := make([]domain.HistoryFile, 0, len(names))
	for _, name := range names {
		files = append(files, domain.HistoryFile{Name: name, Path: "states/" + name})
	}
	return files, nil
}

func (s *memHistoryStore) Read(_ context.Context, name string) (*domain.HistoryEntry, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (s *memHistoryStore) Dir() string { return "configs/test/states" }

type memHistoryRepository struct {
	store   *memHistoryStore
	opened  bool
	persist bool
}

func newMemHistoryRepository() *memHistoryRepository {
	return &memHistoryRepository{store: &memHistoryStore{entries: map[string]domain.HistoryEntry{}}}
}

func (r *memHistoryRepository) Open(_ context.Context, _ string, persist bool) (usecase.DeploymentHistoryStore, error) {
	r.opened = true
	r.persist = persist
	return r.store, nil
}
