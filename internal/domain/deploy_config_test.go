package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentConfigUnmarshal(t *testing.T) {
	t.Run("token as address", func(t *testing.T) {
		var cfg DeploymentConfig
		require.NoError(t, json.Unmarshal([]byte(`{
			"token": "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"transferManager": "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			"ethConnection": {"chainId": 17000}
		}`), &cfg))

		assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", cfg.Token.Address)
		assert.False(t, cfg.Token.HasMetadata())
		assert.Equal(t, uint64(17000), cfg.EthConnection.ChainID)
		assert.Nil(t, cfg.EthConnection.EthOptions)
	})

	t.Run("token as object", func(t *testing.T) {
		var cfg DeploymentConfig
		require.NoError(t, json.Unmarshal([]byte(`{
			"token": {"address": "0xabc", "symbol": "USDC", "decimals": 6},
			"transferManager": "0xdef",
			"ethConnection": {"chainId": 1, "ethOptions": {"gasLimit": 5000000, "gasPrice": "0x3b9aca00", "nonce": "7"}}
		}`), &cfg))

		assert.Equal(t, "0xabc", cfg.Token.Address)
		assert.Equal(t, "USDC", cfg.Token.Symbol)
		require.NotNil(t, cfg.Token.Decimals)
		assert.Equal(t, uint8(6), *cfg.Token.Decimals)
		assert.True(t, cfg.Token.HasMetadata())

		opts := cfg.EthConnection.EthOptions
		require.NotNil(t, opts)
		assert.Equal(t, uint64(5_000_000), opts.GasLimit.Uint64())
		assert.Equal(t, uint64(1_000_000_000), opts.GasPrice.Uint64())
		assert.Equal(t, uint64(7), opts.Nonce.Uint64())
		assert.Nil(t, opts.MaxFeePerGas)
	})

	t.Run("token of the wrong type", func(t *testing.T) {
		var cfg DeploymentConfig
		err := json.Unmarshal([]byte(`{"token": 42}`), &cfg)
		assert.Error(t, err)
	})
}

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{input: `21000`, want: 21000},
		{input: `"21000"`, want: 21000},
		{input: `"0x5208"`, want: 21000},
		{input: `" 0x5208 "`, want: 21000},
		{input: `"-1"`, wantErr: true},
		{input: `"gwei"`, wantErr: true},
		{input: `1.5`, wantErr: true},
		{input: `5e6`, want: 5_000_000},
		{input: `"5e6"`, want: 5_000_000},
		{input: `5E+6`, want: 5_000_000},
		{input: `2.5e9`, want: 2_500_000_000},
		{input: `1e-3`, wantErr: true},
		{input: `-5e6`, wantErr: true},
		{input: `1e78`, wantErr: true},
		{input: `"Inf"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.input), &q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Uint64())
		})
	}
}

func TestTokenConfigMarshal(t *testing.T) {
	data, err := json.Marshal(TokenConfig{Address: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, `"0xabc"`, string(data))

	six := uint8(6)
	data, err = json.Marshal(TokenConfig{Address: "0xabc", Symbol: "USDC", Decimals: &six})
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"0xabc","symbol":"USDC","decimals":6}`, string(data))
}
