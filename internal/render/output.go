// Package render formats comparison results for the terminal and for chat.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/pricing"
)

// Renderer handles output formatting. Pretty output uses rounded borders and
// colour; plain output is ASCII only, for pipes and chat code blocks.
type Renderer struct {
	pretty bool
}

func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Headers are the columns of a results table.
var Headers = []string{
	"Model Name",
	"Input",
	"Output",
	"RPM",
	"Cache %",
	"Images",
	"Commitment",
	"Required PTU",
	"Deployed PTU",
	"Utilization",
	"PayGO cost",
	"PTU cost",
	"Saving %",
	"TP/$ (M)",
}

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// Cells renders one result in Headers order, without colour.
func Cells(r domain.ComparisonResult) []string {
	return []string{
		r.ModelName,
		strconv.Itoa(r.InputTextTokens),
		strconv.Itoa(r.OutputTokens),
		strconv.Itoa(r.RequestsPerMinute),
		formatFloat(r.CacheHitRate, 0),
		strconv.Itoa(r.ImageCount),
		r.Term.Title(),
		formatFloat(r.RequiredUnits, 2),
		strconv.Itoa(r.DeployedUnits),
		formatFloat(r.Utilization*100, 1) + "%",
		r.MeteredCost.StringFixed(2),
		r.CommittedCost.StringFixed(2),
		formatFloat(r.CostSavingPercent, 2),
		formatFloat(r.ThroughputPerDollar, 4),
	}
}

// Saving colours a saving percentage: green when committed capacity is
// cheaper, red when it costs more.
func (r *Renderer) Saving(pct float64) string {
	s := formatFloat(pct, 2)
	if !r.pretty {
		return s
	}
	switch {
	case pct > 0:
		return color.GreenString(s)
	case pct < 0:
		return color.RedString(s)
	default:
		return s
	}
}

const savingCol = 12

// Table renders results as a table, one row per result.
func (r *Renderer) Table(results []domain.ComparisonResult) string {
	rows := make([][]string, len(results))
	for i, res := range results {
		cells := Cells(res)
		cells[savingCol] = r.Saving(res.CostSavingPercent)
		rows[i] = cells
	}

	t := table.New().
		Headers(Headers...).
		Rows(rows...)

	if r.pretty {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return cell
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder())
	}

	return t.String()
}

// Card renders one result as aligned label/value lines.
func (r *Renderer) Card(res domain.ComparisonResult) string {
	label := func(s string) string {
		if r.pretty {
			return color.HiBlackString("%-22s", s)
		}
		return fmt.Sprintf("%-22s", s)
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString(res.ModelName) + "\n")
	} else {
		sb.WriteString(res.ModelName + "\n")
	}
	fmt.Fprintf(&sb, "%s%s\n", label("Family"), res.Family)
	fmt.Fprintf(&sb, "%s%s\n", label("Commitment"), res.Term.Title())
	fmt.Fprintf(&sb, "%s%d in / %d out @ %d rpm\n", label("Workload"), res.InputTextTokens, res.OutputTokens, res.RequestsPerMinute)
	if res.CacheHitRate > 0 {
		fmt.Fprintf(&sb, "%s%s%%\n", label("Cache hit rate"), formatFloat(res.CacheHitRate, 1))
	}
	if res.ImageCount > 0 {
		fmt.Fprintf(&sb, "%s%d (%d tokens)\n", label("Images"), res.ImageCount, res.ImageTokens)
	}
	fmt.Fprintf(&sb, "%s%s\n", label("Required PTU"), formatFloat(res.RequiredUnits, 2))
	fmt.Fprintf(&sb, "%s%d\n", label("Deployed PTU"), res.DeployedUnits)
	fmt.Fprintf(&sb, "%s%s%%\n", label("Utilization"), formatFloat(res.Utilization*100, 1))
	fmt.Fprintf(&sb, "%s$%s\n", label("PayGO cost / month"), res.MeteredCost.StringFixed(2))
	fmt.Fprintf(&sb, "%s$%s\n", label("PTU cost / month"), res.CommittedCost.StringFixed(2))
	fmt.Fprintf(&sb, "%s%s%%\n", label("PTU saving"), r.Saving(res.CostSavingPercent))
	fmt.Fprintf(&sb, "%s%s\n", label("Throughput per $ (M)"), formatFloat(res.ThroughputPerDollar, 4))
	return sb.String()
}

// Breakdown renders the itemized formulas behind one evaluation.
func (r *Renderer) Breakdown(ex pricing.Explanation) string {
	heading := func(s string) string {
		if r.pretty {
			return color.YellowString(s)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString(heading("PTU cost") + "\n")
	fmt.Fprintf(&sb, "  required %s PTU, deployed %d\n", formatFloat(ex.Result.RequiredUnits, 2), ex.Committed.DeployedUnits)
	fmt.Fprintf(&sb, "  %s\n", ex.Committed.Rounding)
	fmt.Fprintf(&sb, "  %s\n", ex.Committed.Discount)

	sb.WriteString(heading("PayGO cost") + "\n")
	fmt.Fprintf(&sb, "  input:  %s\n", ex.Metered.Input)
	if ex.Metered.Image != "" {
		fmt.Fprintf(&sb, "  images: %s\n", ex.Metered.Image)
	}
	fmt.Fprintf(&sb, "  output: %s\n", ex.Metered.Output)
	fmt.Fprintf(&sb, "  total:  %s\n", ex.Metered.Sum)
	return sb.String()
}
