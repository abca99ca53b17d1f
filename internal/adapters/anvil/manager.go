package anvil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

const (
	DefaultAnvilPort = "8545"
	defaultName      = "anvil"
	// Forking has to pull state from the upstream RPC before the node answers
	defaultStartTimeout = 30 * time.Second
	stopTimeout         = 5 * time.Second
	pollInterval        = 100 * time.Millisecond
)

// Manager starts and stops local anvil nodes, tracking them by PID file
type Manager struct {
	privDir      string
	binary       string
	startTimeout time.Duration
	httpClient   *http.Client
	log          *slog.Logger
}

// NewManager creates a new anvil manager. PID and log files live in the private dir.
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		privDir:      cfg.PrivDir,
		binary:       "anvil",
		startTimeout: defaultStartTimeout,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log.With("component", "AnvilManager"),
	}
}

// Start launches anvil for instance and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	if pid, running := m.runningPID(instance); running {
		return fmt.Errorf("anvil '%s' is already running (PID %d, PID file %s)", instance.Name, pid, instance.PidFile)
	}

	// A node we did not start would otherwise pass the readiness check
	if chainID, err := m.chainID(ctx, instance); err == nil {
		return fmt.Errorf("port %s is already in use by another node (chain id %d)", instance.Port, chainID)
	}

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory for PID file: %w", err)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	args := buildAnvilArgs(instance)
	m.log.Debug("starting anvil", "args", strings.Join(redactArgs(args), " "), "log", instance.LogFile)

	cmd := exec.Command(m.binary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	if err := m.waitForRPC(ctx, instance, exited); err != nil {
		_ = cmd.Process.Kill()
		_ = os.Remove(instance.PidFile)
		return err
	}

	m.log.Debug("anvil started", "pid", cmd.Process.Pid, "rpc", instance.RPCURL())
	return nil
}

// waitForRPC polls eth_chainId until the node answers, exits or the timeout passes
func (m *Manager) waitForRPC(ctx context.Context, instance *domain.AnvilInstance, exited <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(ctx, m.startTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if _, err := m.chainID(ctx, instance); err == nil {
			select {
			case <-exited:
				return fmt.Errorf("anvil exited during startup while another node answered on port %s: %s", instance.Port, tailLog(instance.LogFile))
			default:
				return nil
			}
		}

		select {
		case <-exited:
			return fmt.Errorf("anvil exited during startup: %s", tailLog(instance.LogFile))
		case <-ctx.Done():
			return fmt.Errorf("anvil did not become ready within %s: %s", m.startTimeout, tailLog(instance.LogFile))
		case <-ticker.C:
		}
	}
}

// Stop terminates the instance and removes its PID file. Stopping a node that is not running is a no-op.
func (m *Manager) Stop(_ context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	pid, running := m.runningPID(instance)
	if !running {
		if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale PID file: %w", err)
		}
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(stopTimeout)
	for processAlive(pid) && time.Now().Before(deadline) {
		time.Sleep(pollInterval)
	}
	if processAlive(pid) {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	m.log.Debug("anvil stopped", "pid", pid)
	return nil
}

// GetStatus reports whether the instance runs and answers RPC
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)

	status := &domain.AnvilStatus{
		RPCURL:  instance.RPCURL(),
		LogFile: instance.LogFile,
	}

	pid, running := m.runningPID(instance)
	status.Running = running
	if !running {
		return status, nil
	}
	status.PID = pid

	chainID, err := m.chainID(ctx, instance)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	return status, nil
}

// SetBalance sets the balance of account on the node with anvil_setBalance
func (m *Manager) SetBalance(ctx context.Context, instance *domain.AnvilInstance, account common.Address, wei *big.Int) error {
	params := []interface{}{account.Hex(), hexutil.EncodeBig(wei)}
	if err := m.rpcCall(ctx, instance, "anvil_setBalance", params, nil); err != nil {
		return fmt.Errorf("failed to set balance of %s: %w", account.Hex(), err)
	}
	return nil
}

func (m *Manager) chainID(ctx context.Context, instance *domain.AnvilInstance) (uint64, error) {
	var result hexutil.Uint64
	if err := m.rpcCall(ctx, instance, "eth_chainId", []interface{}{}, &result); err != nil {
		return 0, err
	}
	return uint64(result), nil
}

// setFilePaths fills in defaults for unset fields
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = defaultName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.privDir, fmt.Sprintf("%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.privDir, fmt.Sprintf("%s.log", instance.Name))
	}
}

func (m *Manager) runningPID(instance *domain.AnvilInstance) (int, bool) {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return 0, false
	}
	return pid, processAlive(pid)
}

// buildAnvilArgs builds the command line of an instance
func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
	}
	return args
}

// redactArgs hides the fork URL, which often embeds an API key
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "--fork-url" {
			out[i+1] = "<redacted>"
		}
	}
	return out
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// tailLog returns the last lines of a log file for error messages
func tailLog(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("see %s", path)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}

// rpcRequest represents a JSON-RPC request
type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// rpcError represents a JSON-RPC error
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcCall posts a JSON-RPC request to the instance and decodes the result into result when non-nil
func (m *Manager) rpcCall(ctx context.Context, instance *domain.AnvilInstance, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, instance.RPCURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d", httpResp.StatusCode)
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("RPC error: %s", resp.Error.Message)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// Ensure Manager implements ForkManager
var _ usecase.ForkManager = (*Manager)(nil)
