package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Ning0612/fmatch/internal/domain"
)

var (
	folderColor  = color.New(color.FgBlue, color.Bold)
	fileColor    = color.New(color.FgCyan)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	changedColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// printer writes a value as JSON or YAML, or through a text renderer
type printer struct {
	w      io.Writer
	format string
}

func (a *app) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), format: a.format}
}

func (p printer) print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

// kindLabel renders an entry kind with a fixed width
func kindLabel(kind string) string {
	if kind == domain.KindFolder.String() {
		return folderColor.Sprint("folder")
	}
	return fileColor.Sprint("file  ")
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// shortHash abbreviates a hex digest for text output
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
