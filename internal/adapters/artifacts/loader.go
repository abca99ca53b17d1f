package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/domain/models"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// Loader reads Foundry artifacts from the build output directory
type Loader struct {
	outDir string
	mu     sync.Mutex
	cache  map[string]*models.Artifact
}

// NewLoader creates a new artifact loader
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{
		outDir: cfg.ArtifactsDir,
		cache:  make(map[string]*models.Artifact),
	}
}

// GetArtifact returns the artifact of a contract. name is either "Contract"
// or "File.sol:Contract"; a bare name is looked up in <out>/Contract.sol first,
// then anywhere under <out>.
func (l *Loader) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if artifact, ok := l.cache[name]; ok {
		return artifact, nil
	}

	path, err := l.locate(name)
	if err != nil {
		return nil, err
	}

	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	_, artifact.Name = splitContractName(name)

	l.cache[name] = artifact
	return artifact, nil
}

func (l *Loader) locate(name string) (string, error) {
	file, contract := splitContractName(name)
	if contract == "" {
		return "", fmt.Errorf("empty contract name")
	}
	if file == "" {
		file = contract + ".sol"
	}

	direct := filepath.Join(l.outDir, file, contract+".json")
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	var matches []string
	err := filepath.WalkDir(l.outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == contract+".json" && strings.HasSuffix(filepath.Dir(path), ".sol") {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("artifacts directory %s not found, run forge build: %w", l.outDir, domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to scan artifacts in %s: %w", l.outDir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("artifact for %s not found in %s: %w", name, l.outDir, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("multiple artifacts match %s, use File.sol:%s: %s", name, contract, strings.Join(matches, ", "))
	}
}

func readArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	artifact.Path = path
	return &artifact, nil
}

// splitContractName splits "File.sol:Contract" into its parts
func splitContractName(name string) (file, contract string) {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return filepath.Base(name[:idx]), name[idx+1:]
	}
	return "", name
}

// Ensure Loader implements ArtifactRepository
var _ usecase.ArtifactRepository = (*Loader)(nil)
