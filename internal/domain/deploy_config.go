package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// DeploymentConfig is the per-network input of a deployment, read from configs/<network>/config.json
type DeploymentConfig struct {
	Token           TokenConfig         `json:"token"`
	TransferManager string              `json:"transferManager"`
	EthConnection   EthConnectionConfig `json:"ethConnection"`
}

// TokenConfig is either a bare address or an address with the expected ERC-20 metadata
type TokenConfig struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals *uint8 `json:"decimals,omitempty"`
}

type tokenConfigObject TokenConfig

// UnmarshalJSON accepts "0x..." as well as {"address": "0x...", "symbol": ..., "decimals": ...}
func (t *TokenConfig) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var address string
		if err := json.Unmarshal(data, &address); err != nil {
			return err
		}
		*t = TokenConfig{Address: address}
		return nil
	}

	var obj tokenConfigObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("token must be an address or an object: %w", err)
	}
	*t = TokenConfig(obj)
	return nil
}

// MarshalJSON writes the bare address form when no metadata override is set
func (t TokenConfig) MarshalJSON() ([]byte, error) {
	if !t.HasMetadata() {
		return json.Marshal(t.Address)
	}
	return json.Marshal(tokenConfigObject(t))
}

// HasMetadata reports whether the config pins the token symbol or decimals
func (t TokenConfig) HasMetadata() bool {
	return t.Symbol != "" || t.Decimals != nil
}

// EthConnectionConfig holds the chain the config targets and optional transaction overrides
type EthConnectionConfig struct {
	EthOptions *TxOverrides `json:"ethOptions,omitempty"`
	ChainID    uint64       `json:"chainId"`
}

// TxOverrides are applied to every deployment transaction
type TxOverrides struct {
	GasLimit             *Quantity `json:"gasLimit,omitempty"`
	GasPrice             *Quantity `json:"gasPrice,omitempty"`
	MaxFeePerGas         *Quantity `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *Quantity `json:"maxPriorityFeePerGas,omitempty"`
	Nonce                *Quantity `json:"nonce,omitempty"`
}

// Quantity is a non-negative integer written as a JSON number (exponent form such as 5e6 included), decimal string or 0x-prefixed hex string
type Quantity big.Int

// NewQuantity creates a Quantity from an int64
func NewQuantity(v int64) *Quantity {
	return (*Quantity)(big.NewInt(v))
}

// ToInt returns the value as *big.Int, nil for a nil receiver
func (q *Quantity) ToInt() *big.Int {
	if q == nil {
		return nil
	}
	return (*big.Int)(q)
}

// Uint64 returns the value truncated to uint64
func (q *Quantity) Uint64() uint64 {
	if q == nil {
		return 0
	}
	return q.ToInt().Uint64()
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}

	v, ok := math.ParseBig256(raw)
	if !ok {
		var err error
		if v, err = parseIntegralFloat(raw); err != nil {
			return err
		}
	}
	if v.Sign() < 0 {
		return fmt.Errorf("negative quantity %q", raw)
	}
	*q = Quantity(*v)
	return nil
}

// parseIntegralFloat accepts decimal and exponent forms such as 5e6 as long
// as they denote an integer that fits in 256 bits
func parseIntegralFloat(raw string) (*big.Int, error) {
	f, _, err := big.ParseFloat(raw, 10, 512, big.ToNearestEven)
	if err != nil || f.IsInf() {
		return nil, fmt.Errorf("invalid quantity %q", raw)
	}
	if !f.IsInt() {
		return nil, fmt.Errorf("quantity %q is not an integer", raw)
	}
	v, _ := f.Int(nil)
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("quantity %q exceeds 256 bits", raw)
	}
	return v, nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	v := big.Int(q)
	return []byte(v.String()), nil
}

// TokenMetadata is the ERC-20 metadata read from chain
type TokenMetadata struct {
	Symbol   string
	Decimals uint8
}
