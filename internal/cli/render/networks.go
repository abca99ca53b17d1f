package render

import (
	"fmt"
	"io"

	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format string
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format string) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		format: format,
	}
}

type networkView struct {
	Name    string `json:"name" yaml:"name"`
	ChainID uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	views := make([]networkView, 0, len(result.Networks))
	for _, n := range result.Networks {
		view := networkView{Name: n.Name, ChainID: n.ChainID}
		if n.Error != nil {
			view.Error = n.Error.Error()
		}
		views = append(views, view)
	}
	if done, err := writeStructured(r.out, r.format, views); done {
		return err
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		switch {
		case network.Error != nil:
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", network.Name, network.Error)
		case network.ChainID == 0:
			fmt.Fprintf(r.out, "  • %s\n", network.Name)
		default:
			fmt.Fprintf(r.out, "  ✅ %s - Chain ID: %d\n", network.Name, network.ChainID)
		}
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
