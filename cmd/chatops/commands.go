package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/chatops/internal/command"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			PaddingRight(2)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true).
			PaddingRight(2)

	cellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

type commandInfo struct {
	Name    string `json:"name"`
	MinArgs *int   `json:"min_args"`
	MaxArgs *int   `json:"max_args"`
	Usage   string `json:"usage"`
}

func newCommandsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the commands in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.loadRegistry(cmd.Context())
			if reg == nil {
				return errors.New(command.RegistryUnavailableMessage)
			}
			if asJSON {
				return a.printCommandsJSON(reg)
			}
			_, err := fmt.Fprintln(a.stdout, renderCommands(reg))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registry as JSON")
	return cmd
}

func (a *app) printCommandsJSON(reg *command.Registry) error {
	specs := reg.Specs()
	out := make([]commandInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, commandInfo{Name: s.Name, MinArgs: s.MinArgs, MaxArgs: s.MaxArgs, Usage: s.Usage})
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderCommands lays the registry out as aligned columns.
func renderCommands(reg *command.Registry) string {
	specs := reg.Specs()
	rows := [][]string{{"COMMAND", "ARGS", "USAGE"}}
	for _, s := range specs {
		rows = append(rows, []string{s.Name, arityLabel(s), s.Usage})
	}

	widths := make([]int, 2)
	for _, row := range rows {
		for i := range widths {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	for i, row := range rows {
		nameCell, argCell := cellStyle, cellStyle
		if i == 0 {
			nameCell, argCell = headerStyle, headerStyle
		} else {
			nameCell = nameStyle
		}
		usage := row[2]
		if i == 0 {
			usage = headerStyle.Render(usage)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			nameCell.Width(widths[0]+2).Render(row[0]),
			argCell.Width(widths[1]+2).Render(row[1]),
			usage,
		))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d commands", len(specs))))
	return b.String()
}

// arityLabel renders the accepted argument count, e.g. "1", "0-2", "1+".
func arityLabel(s command.Spec) string {
	lo := 0
	if s.MinArgs != nil {
		lo = *s.MinArgs
	}
	switch {
	case s.MaxArgs == nil && lo == 0:
		return "any"
	case s.MaxArgs == nil:
		return fmt.Sprintf("%d+", lo)
	case *s.MaxArgs == lo:
		return fmt.Sprintf("%d", lo)
	default:
		return fmt.Sprintf("%d-%d", lo, *s.MaxArgs)
	}
}
