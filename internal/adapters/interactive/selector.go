package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectNetwork asks the operator to pick one of networks
func (s *SelectorAdapter) SelectNetwork(ctx context.Context, networks []config.NetworkProfile) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(networks) == 0 {
		return "", fmt.Errorf("no networks configured")
	}

	if len(networks) == 1 {
		return networks[0].Name, nil
	}

	options := formatNetworkOptions(networks)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select network",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return networks[index].Name, nil
}

// formatNetworkOptions renders "name (chain 1) [tag, tag]"
func formatNetworkOptions(networks []config.NetworkProfile) []string {
	options := make([]string, len(networks))
	for i, n := range networks {
		name := color.New(color.FgWhite, color.Bold).Sprint(n.Name)
		chain := color.New(color.FgBlue).Sprintf("chain %d", n.ChainID)
		if len(n.Tags) > 0 {
			tags := color.New(color.FgYellow).Sprintf("[%s]", strings.Join(n.Tags, ", "))
			options[i] = fmt.Sprintf("%s (%s) %s", name, chain, tags)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, chain)
		}
	}
	return options
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

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.NetworkSelector = (*SelectorAdapter)(nil)
