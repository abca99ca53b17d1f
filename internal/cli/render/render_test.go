package render

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

func init() {
	color.NoColor = true
}

func showResult() *usecase.ShowDeploymentResult {
	return &usecase.ShowDeploymentResult{
		Network: "holesky",
		Path:    "data/contracts/holesky.json",
		Records: domain.DeploymentRecords{
			"WarpStake": {Proxy: "0xProxy", Implementation: "0xImpl"},
		},
	}
}

func TestRecordsRenderer(t *testing.T) {
	t.Run("json mirrors the record file", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRecordsRenderer(&buf, FormatJSON).Render(showResult()))
		assert.JSONEq(t, `{"WarpStake":{"proxy":"0xProxy","implementation":"0xImpl"}}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRecordsRenderer(&buf, FormatYAML).Render(showResult()))
		assert.Equal(t, "WarpStake:\n  proxy: 0xProxy\n  implementation: 0xImpl\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRecordsRenderer(&buf, FormatTable).Render(showResult()))
		out := buf.String()
		assert.Contains(t, out, "Holesky")
		assert.Contains(t, out, "Implementation")
		assert.Contains(t, out, "0xProxy")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		result := showResult()
		result.Records = domain.DeploymentRecords{}
		require.NoError(t, NewRecordsRenderer(&buf, FormatTable).Render(result))
		assert.Equal(t, "No deployments recorded for holesky\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, NewRecordsRenderer(&buf, "xml").Render(showResult()))
	})
}

func TestHistoryRenderer(t *testing.T) {
	tx := "0xfeed"
	result := &usecase.ListHistoryResult{
		Network: "holesky",
		Dir:     "data/configs/holesky/states",
		Items: []usecase.HistoryItem{
			{
				HistoryFile: domain.HistoryFile{Name: "2024-05-01_01.json", Latest: true},
				Entry:       &domain.HistoryEntry{Proxy: "0xP2", Implementation: "0xI2", Tx: &tx},
			},
			{
				HistoryFile: domain.HistoryFile{Name: "2024-05-01.json"},
				Entry:       &domain.HistoryEntry{Proxy: "0xP1", Implementation: "0xI1"},
			},
			{
				HistoryFile: domain.HistoryFile{Name: "broken.json"},
				Error:       errors.New("malformed history file"),
			},
		},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewHistoryRenderer(&buf, FormatTable).Render(result))
		out := buf.String()
		assert.Contains(t, out, "2024-05-01_01.json (latest)")
		assert.Contains(t, out, "0xfeed")
		assert.Contains(t, out, "Malformed history file")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewHistoryRenderer(&buf, FormatJSON).Render(result))
		assert.JSONEq(t, `[
			{"file":"2024-05-01_01.json","latest":true,"entry":{"proxy":"0xP2","implementation":"0xI2","tx":"0xfeed"}},
			{"file":"2024-05-01.json","latest":false,"entry":{"proxy":"0xP1","implementation":"0xI1","tx":null}},
			{"file":"broken.json","latest":false,"error":"malformed history file"}
		]`, buf.String())
	})
}

func TestNetworksRenderer(t *testing.T) {
	result := &usecase.ListNetworksResult{Networks: []usecase.NetworkStatus{
		{Name: "holesky", ChainID: 17000},
		{Name: "mainnet", Error: errors.New("connection refused")},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewNetworksRenderer(&buf, FormatTable).Render(result))
	assert.Contains(t, buf.String(), "✅ holesky - Chain ID: 17000")
	assert.Contains(t, buf.String(), "❌ mainnet - Error: connection refused")

	buf.Reset()
	require.NoError(t, NewNetworksRenderer(&buf, FormatJSON).Render(result))
	assert.JSONEq(t, `[{"name":"holesky","chainId":17000},{"name":"mainnet","error":"connection refused"}]`, buf.String())
}

func TestDeployRenderer(t *testing.T) {
	tx := "0xabc"
	result := &usecase.DeployStakingResult{
		Network:       "holesky",
		ChainID:       17000,
		ContractName:  "WarpStake",
		Record:        domain.DeploymentRecord{Proxy: "0xP", Implementation: "0xI"},
		Entry:         domain.HistoryEntry{Proxy: "0xP", Implementation: "0xI", Tx: &tx},
		HistoryFile:   "2024-05-01.json",
		RecordPath:    "data/contracts/holesky.json",
		BalanceBefore: big.NewInt(2e18),
		BalanceAfter:  big.NewInt(15e17),
		Spent:         big.NewInt(5e17),
		Warnings:      []string{"ethOptions are undefined"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewDeployRenderer(&buf).Render(result))
	out := buf.String()
	assert.Contains(t, out, "\"proxy\": \"0xP\"")
	assert.Contains(t, out, "Deployed WarpStake to holesky (chain 17000)")
	assert.Contains(t, out, "0.5 ETH")
	assert.Contains(t, out, "2024-05-01.json")
	assert.Contains(t, out, "ethOptions are undefined")

	buf.Reset()
	result.DryRun = true
	require.NoError(t, NewDeployRenderer(&buf).Render(result))
	assert.Contains(t, buf.String(), "nothing written")
	assert.NotContains(t, buf.String(), "2024-05-01.json")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Transfer Manager", title("transfer manager"))
	assert.Equal(t, "Holesky", title("holesky"))
}
