package render

import (
	"fmt"
	"io"

	"github.com/warpstake/wsdeploy/internal/usecase"
)

// ConfigCheckRenderer renders a validated network config
type ConfigCheckRenderer struct {
	out    io.Writer
	format string
}

// NewConfigCheckRenderer creates a new config check renderer
func NewConfigCheckRenderer(out io.Writer, format string) *ConfigCheckRenderer {
	return &ConfigCheckRenderer{out: out, format: format}
}

type configCheckView struct {
	Network         string   `json:"network" yaml:"network"`
	ChainID         uint64   `json:"chainId" yaml:"chainId"`
	Token           string   `json:"token" yaml:"token"`
	Symbol          string   `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Decimals        *uint8   `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	TransferManager string   `json:"transferManager" yaml:"transferManager"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Render writes the checked values
func (r *ConfigCheckRenderer) Render(result *usecase.CheckConfigResult) error {
	view := configCheckView{
		Network:         result.Network,
		ChainID:         result.ChainID,
		Token:           result.Token.Hex(),
		TransferManager: result.TransferManager.Hex(),
		Warnings:        result.Warnings,
	}
	if meta := result.TokenMetadata; meta != nil {
		view.Symbol = meta.Symbol
		view.Decimals = &meta.Decimals
	}
	if done, err := writeStructured(r.out, r.format, view); done {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Config for %s is valid", result.Network)))

	t := newTable("field", "value")
	t.AppendRow([]any{"chain id", result.ChainID})
	t.AppendRow([]any{"token", addressStyle.Sprint(view.Token)})
	if view.Symbol != "" {
		t.AppendRow([]any{"token symbol", view.Symbol})
		t.AppendRow([]any{"token decimals", *view.Decimals})
	}
	t.AppendRow([]any{"transfer manager", addressStyle.Sprint(view.TransferManager)})
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.CheckConfigResult] = (*ConfigCheckRenderer)(nil)
