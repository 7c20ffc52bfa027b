package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/podlens/pkg/pods"
	"github.com/matzehuels/podlens/pkg/readme"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleLanguage = lipgloss.NewStyle().Foreground(colorYellow)
	styleCode     = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorDim).
			PaddingLeft(1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Result Output
// =============================================================================

// printResultHeader prints pod metadata followed by the stats line.
func printResultHeader(w io.Writer, res *pods.Result) {
	line := StyleTitle.Render(res.Name)
	if res.Version != "" {
		line += " " + StyleDim.Render(res.Version)
	}
	fmt.Fprintln(w, line)
	if res.Summary != "" {
		fmt.Fprintln(w, StyleDim.Render(res.Summary))
	}
	fmt.Fprintln(w)
	printKeyValue(w, "Repository", res.Repository)
	printKeyValue(w, "Homepage", res.Homepage)
	printKeyValue(w, "License", res.License)
	printKeyValue(w, "Platforms", formatPlatforms(res.Platforms))
	if res.Stars > 0 {
		printKeyValue(w, "Stars", fmt.Sprintf("%d", res.Stars))
	}
	printStats(w, res)
}

// printStats prints example counts and cache status on a single line.
func printStats(w io.Writer, res *pods.Result) {
	parts := []string{fmt.Sprintf("%d examples", res.Stats.Examples)}
	for _, lang := range sortedKeys(res.Stats.ByLanguage) {
		parts = append(parts, fmt.Sprintf("%d %s", res.Stats.ByLanguage[lang], lang))
	}

	status, statusStyle := iconFresh, styleComputed
	if res.Cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}

// printExamples prints every example with its title, description and code.
func printExamples(w io.Writer, examples []readme.UsageExample) {
	for i, ex := range examples {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("%d.", i+1)),
			StyleValue.Bold(true).Render(ex.Title),
			styleLanguage.Render("["+ex.Language+"]"))
		if ex.Description != "" {
			fmt.Fprintln(w, StyleDim.Render(ex.Description))
		}
		fmt.Fprintln(w, styleCode.Render(ex.Code))
	}
}

// exampleTable renders a compact overview of examples.
func exampleTable(examples []readme.UsageExample) string {
	rows := make([][]string, len(examples))
	for i, ex := range examples {
		rows[i] = []string{fmt.Sprintf("%d", i+1), ex.Title, ex.Language, fmt.Sprintf("%d", strings.Count(ex.Code, "\n")+1)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Title", "Lang", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return styleLanguage
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// printInstallation prints whichever installation snippets were found.
func printInstallation(w io.Writer, inst readme.InstallationInstructions) {
	if inst.IsEmpty() {
		printWarning(w, "No installation instructions found")
		return
	}
	section := func(name, snippet string) {
		if snippet == "" {
			return
		}
		fmt.Fprintln(w, StyleTitle.Render(name))
		fmt.Fprintln(w, styleCode.Render(snippet))
		fmt.Fprintln(w)
	}
	section("CocoaPods", inst.Podfile)
	section("Carthage", inst.Carthage)
	section("Swift Package Manager", inst.SPM)
}

// =============================================================================
// Utilities
// =============================================================================

func formatPlatforms(p map[string]string) string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	for _, name := range sortedKeys(p) {
		if v := p[name]; v != "" {
			parts = append(parts, name+" "+v)
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
