package report

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fyrsmithlabs/chatops/internal/command"
)

// LoadGuide reads the usage guide at path. When the file does not exist the
// guide is generated from reg. Any other read error also falls back to the
// generated guide and is returned so the caller can log it.
func LoadGuide(path string, reg *command.Registry) (string, error) {
	if path == "" {
		return GenerateGuide(reg), nil
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return GenerateGuide(reg), nil
	case err != nil:
		return GenerateGuide(reg), fmt.Errorf("reading usage guide %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// GenerateGuide renders one bullet per registered command, in name order.
func GenerateGuide(reg *command.Registry) string {
	specs := reg.Specs()
	if len(specs) == 0 {
		return "_No commands are registered._"
	}

	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		lines = append(lines, "- "+strings.TrimSpace(strings.TrimPrefix(spec.Usage, "Usage:")))
	}
	return strings.Join(lines, "\n")
}
