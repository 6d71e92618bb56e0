package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/dbprov/internal/platform/rds"
	"github.com/imamik/dbprov/internal/provisioning/destroy"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorRed    = lipgloss.Color("#ef4444")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	yellowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// isInteractiveTTY is replaceable in tests.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// resolveFormat picks the default format when none was requested: a table
// for terminals, JSON for pipes.
func resolveFormat(output string) (string, error) {
	switch output {
	case "":
		if isInteractiveTTY() {
			return OutputTable, nil
		}
		return OutputJSON, nil
	case OutputTable, OutputJSON, OutputYAML:
		return output, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (must be %s, %s or %s)", output, OutputTable, OutputJSON, OutputYAML)
	}
}

func renderClusters(w io.Writer, clusters []*rds.Cluster, output string) error {
	format, err := resolveFormat(output)
	if err != nil {
		return err
	}
	if format != OutputTable {
		return encode(w, clusters, format)
	}

	var b strings.Builder
	for _, c := range clusters {
		b.WriteString(headerStyle.Render(c.Identifier))
		b.WriteString("  ")
		b.WriteString(statusStyle(c.Status).Render(string(c.Status)))
		b.WriteString("\n")
		writeRow(&b, "Engine", strings.TrimSpace(c.Engine+" "+c.EngineVersion))
		if c.Endpoint != "" {
			writeRow(&b, "Endpoint", fmt.Sprintf("%s:%d", c.Endpoint, c.Port))
		}
		writeRow(&b, "Database", c.DatabaseName)
		writeRow(&b, "User", c.MasterUsername)
		writeRow(&b, "Instance", c.InstanceClass)
		writeRow(&b, "Subnet group", c.SubnetGroup)
		writeRow(&b, "Security groups", strings.Join(c.SecurityGroupIDs, ", "))
		if c.MasterPassword != "" {
			writeRow(&b, "Password", "(in json/yaml output)")
		}
		b.WriteString("\n")
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func renderResults(w io.Writer, results []destroy.Result, output string) error {
	format, err := resolveFormat(output)
	if err != nil {
		return err
	}
	if format != OutputTable {
		if results == nil {
			results = []destroy.Result{}
		}
		return encode(w, results, format)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Teardown"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")
	for _, r := range results {
		line := fmt.Sprintf("  %-15s %-30s ", r.Kind, r.Identifier)
		b.WriteString(line)
		b.WriteString(outcomeStyle(r.Outcome).Render(string(r.Outcome)))
		if r.Err != nil {
			b.WriteString(dimStyle.Render("  " + r.Err.Error()))
		}
		b.WriteString("\n")
	}

	summary := destroy.Summary(results)
	var parts []string
	for _, o := range []destroy.Outcome{destroy.OutcomeDeleted, destroy.OutcomeInvalidState, destroy.OutcomeError} {
		if n := summary[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to delete")
	}
	b.WriteString(dimStyle.Render("  " + strings.Join(parts, ", ")))
	b.WriteString("\n")

	_, err = io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-16s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

func statusStyle(status rds.ClusterStatus) lipgloss.Style {
	switch status {
	case rds.StatusAvailable:
		return greenStyle
	case rds.StatusDeleted, rds.StatusDeleting:
		return redStyle
	default:
		return yellowStyle
	}
}

func outcomeStyle(outcome destroy.Outcome) lipgloss.Style {
	switch outcome {
	case destroy.OutcomeDeleted:
		return greenStyle
	case destroy.OutcomeInvalidState:
		return yellowStyle
	default:
		return redStyle
	}
}

func encode(w io.Writer, v any, format string) error {
	var (
		data []byte
		err  error
	)
	if format == OutputYAML {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
