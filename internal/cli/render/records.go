package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/warpstake/wsdeploy/internal/usecase"
)

// RecordsRenderer renders the current deployment records of a network
type RecordsRenderer struct {
	out    io.Writer
	format string
}

// NewRecordsRenderer creates a new records renderer
func NewRecordsRenderer(out io.Writer, format string) *RecordsRenderer {
	return &RecordsRenderer{out: out, format: format}
}

// Render writes the records; the structured formats mirror contracts/<network>.json
func (r *RecordsRenderer) Render(result *usecase.ShowDeploymentResult) error {
	if done, err := writeStructured(r.out, r.format, result.Records); done {
		return err
	}

	if len(result.Records) == 0 {
		fmt.Fprintf(r.out, "No deployments recorded for %s\n", result.Network)
		return nil
	}

	names := make([]string, 0, len(result.Records))
	for name := range result.Records {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable("contract", "proxy", "implementation")
	for _, name := range names {
		record := result.Records[name]
		t.AppendRow([]any{
			labelStyle.Sprint(name),
			addressStyle.Sprint(record.Proxy),
			addressStyle.Sprint(record.Implementation),
		})
	}

	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint(title(result.Network)), faintStyle.Sprint(result.Path))
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ShowDeploymentResult] = (*RecordsRenderer)(nil)
