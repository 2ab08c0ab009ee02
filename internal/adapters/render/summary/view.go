package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tinderbot-cli/internal/application"
)

type RenderOptions struct {
	// Target is the minimum pool size the run aimed for.
	Target int
	// MaxRows caps the per-candidate list. Zero lists everyone.
	MaxRows int
}

const barWidth = 24

func renderView(report application.Report, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Tinderbot run"),
		s.header.Render(fmt.Sprintf("attempts: %d  pool: %d  liked: %d  failed: %d  matches: %d",
			report.Attempts, report.PoolSize, report.Liked(), report.Failed(), report.Matches())),
	}

	if opts.Target > 0 {
		lines = append(lines, progressLine("pool", report.PoolSize, opts.Target, s))
	}
	if report.PoolSize > 0 {
		lines = append(lines, progressLine("liked", report.Liked(), report.PoolSize, s))
	}

	if len(report.Results) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No candidates were liked.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([]string, 0, len(report.Results)+1)
	for i, result := range report.Results {
		if opts.MaxRows > 0 && i >= opts.MaxRows {
			rows = append(rows, s.empty.Render(fmt.Sprintf("… %d more", len(report.Results)-opts.MaxRows)))
			break
		}
		rows = append(rows, resultLine(result, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func resultLine(result application.LikeResult, s styles) string {
	label := s.candidate.Render(candidateLabel(result))

	if result.Err != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.failed.Render("✗"), " ", label, " ", s.detail.Render(result.Err.Error()))
	}

	parts := []string{s.ok.Render("✓"), " ", label}
	if result.Matched() {
		parts = append(parts, " ", s.match.Render("[match]"))
	}
	if result.Payload.StatusCode != 0 && result.Payload.StatusCode != 200 {
		parts = append(parts, " ", s.detail.Render(fmt.Sprintf("(status %d)", result.Payload.StatusCode)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func candidateLabel(result application.LikeResult) string {
	name := strings.TrimSpace(result.Candidate.Name)
	if name == "" {
		return string(result.Candidate.ID)
	}
	return fmt.Sprintf("%s (%s)", name, result.Candidate.ID)
}

func progressLine(label string, value, total int, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barLabel.Render(fmt.Sprintf("%-6s", label)),
		" ",
		renderProgressBar(ratioPercent(value, total), barWidth, s),
		" ",
		s.detail.Render(fmt.Sprintf("%d/%d", value, total)),
	)
}

func ratioPercent(value, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clampPercent(float64(value) / float64(total) * 100)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
