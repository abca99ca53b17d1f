package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompting is disabled
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// Prompter asks the operator through promptui
type Prompter struct {
	nonInteractive bool
}

// NewPrompter creates a new prompter
func NewPrompter(cfg *config.RuntimeConfig) *Prompter {
	return &Prompter{nonInteractive: cfg.NonInteractive}
}

// Confirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) Confirm(_ context.Context, message string) (bool, error) {
	if p.nonInteractive {
		return false, fmt.Errorf("cannot confirm %q, pass --yes: %w", message, ErrNonInteractive)
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return true, nil
}

// SelectNetwork lets the operator pick one of the configured networks
func (p *Prompter) SelectNetwork(_ context.Context, networks []string) (string, error) {
	if len(networks) == 0 {
		return "", fmt.Errorf("no networks configured in foundry.toml [rpc_endpoints]")
	}
	if len(networks) == 1 {
		return networks[0], nil
	}
	if p.nonInteractive {
		return "", fmt.Errorf("--network is required: %w", ErrNonInteractive)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, type to filter, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select network",
		Items:             networks,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(networks),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return networks[index], nil
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure Prompter implements the Prompter port
var _ usecase.Prompter = (*Prompter)(nil)
