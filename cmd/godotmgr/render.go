package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DcZipPL/GodotManager/internal/service"
	"github.com/DcZipPL/GodotManager/internal/version"
)

var (
	primaryColor = lipgloss.Color("#478CBF")
	dimColor     = lipgloss.Color("#6272A4")
	okColor      = lipgloss.Color("#50FA7B")
	warnColor    = lipgloss.Color("#F1FA8C")
	errColor     = lipgloss.Color("#FF5555")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	errStyle    = lipgloss.NewStyle().Foreground(errColor).Bold(true)
	columnStyle = lipgloss.NewStyle().PaddingRight(2)
)

const progressWidth = 24

// renderVersionRow renders one listing line: tag, display name and date.
func renderVersionRow(v version.Version, installed []string, idWidth int) string {
	id := columnStyle.Width(idWidth + 2).Render(v.ID)

	name := v.DisplayName
	if v.Prerelease {
		name += " " + warnStyle.Render("(prerelease)")
	}

	date := "unknown date"
	if v.PublishedAt != nil {
		date = v.PublishedAt.Format("2006-01-02")
	}

	line := id + name + "  " + dimStyle.Render(date)
	if len(installed) > 0 {
		line += "  " + okStyle.Render("installed: "+strings.Join(installed, ", "))
	}
	return line
}

// progressBar draws fraction (0..1) as a fixed width bar.
func progressBar(fraction float64) string {
	if fraction < 0 {
		return ""
	}
	filled := int(fraction * progressWidth)
	if filled > progressWidth {
		filled = progressWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}

// formatBytes renders n using binary units.
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

// statusPrinter writes one line per stage change and per tenth of
// download progress.
type statusPrinter struct {
	w          io.Writer
	lastStage  service.Stage
	lastDecile int
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	return &statusPrinter{w: w, lastDecile: -1}
}

func (p *statusPrinter) print(st service.Status) {
	if st.Stage == p.lastStage && st.Stage != service.StageDownloading {
		return
	}
	if st.Stage == service.StageDownloading {
		decile := int(st.Fraction() * 10)
		if st.Stage == p.lastStage && decile == p.lastDecile {
			return
		}
		p.lastDecile = decile
	}
	p.lastStage = st.Stage

	fmt.Fprintln(p.w, formatStatus(st))
}

// formatStatus renders a status as a single line.
func formatStatus(st service.Status) string {
	switch st.Stage {
	case service.StageDownloading:
		line := st.Message
		if f := st.Fraction(); f >= 0 {
			line += fmt.Sprintf(" %s %3.0f%% of %s", progressBar(f), f*100, formatBytes(st.BytesTotal))
		} else if st.BytesRead > 0 {
			line += " " + formatBytes(st.BytesRead)
		}
		return line
	case service.StageExtracting:
		if st.Files > 0 {
			return fmt.Sprintf("%s %d files", st.Message, st.Files)
		}
		return st.Message
	case service.StageCompleted:
		return okStyle.Render(st.Message) + dimStyle.Render(fmt.Sprintf(" (%d files, %s, %s)",
			st.Result.Files, formatBytes(st.Result.Bytes), st.Result.Duration.Round(time.Millisecond)))
	case service.StageFailed:
		return errStyle.Render(st.Message)
	case service.StageCancelled:
		return warnStyle.Render(st.Message)
	default:
		return dimStyle.Render(st.Message)
	}
}
