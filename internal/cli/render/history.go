package render

import (
	"fmt"
	"io"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// HistoryRenderer renders the deployment history of a network
type HistoryRenderer struct {
	out    io.Writer
	format string
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer, format string) *HistoryRenderer {
	return &HistoryRenderer{out: out, format: format}
}

type historyView struct {
	File   string               `json:"file" yaml:"file"`
	Latest bool                 `json:"latest" yaml:"latest"`
	Entry  *domain.HistoryEntry `json:"entry,omitempty" yaml:"entry,omitempty"`
	Error  string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Render writes history files newest first
func (r *HistoryRenderer) Render(result *usecase.ListHistoryResult) error {
	views := make([]historyView, 0, len(result.Items))
	for _, item := range result.Items {
		view := historyView{File: item.Name, Latest: item.Latest, Entry: item.Entry}
		if item.Error != nil {
			view.Error = item.Error.Error()
		}
		views = append(views, view)
	}
	if done, err := writeStructured(r.out, r.format, views); done {
		return err
	}

	if len(result.Items) == 0 {
		fmt.Fprintf(r.out, "No deployment history for %s\n", result.Network)
		return nil
	}

	t := newTable("file", "proxy", "implementation", "tx")
	for _, item := range result.Items {
		name := item.Name
		if item.Latest {
			name = latestStyle.Sprint(name + " (latest)")
		}
		if item.Error != nil {
			t.AppendRow([]any{name, FormatError(item.Error.Error()), "", ""})
			continue
		}
		tx := faintStyle.Sprint("-")
		if item.Entry.Tx != nil {
			tx = *item.Entry.Tx
		}
		t.AppendRow([]any{name, item.Entry.Proxy, item.Entry.Implementation, tx})
	}

	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint(title(result.Network)), faintStyle.Sprint(result.Dir))
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListHistoryResult] = (*HistoryRenderer)(nil)
