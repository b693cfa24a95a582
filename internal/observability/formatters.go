package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-prep/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer renders quizzes and insights for the CLI preview commands.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuiz outputs every question with lettered options. The correct
// option is flagged when showAnswers is set.
func (p *Printer) PrintQuiz(quiz *types.Quiz, showAnswers bool) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return
	}

	for i, q := range quiz.Questions {
		var sb strings.Builder
		sb.WriteString(q.Question + "\n\n")
		for j, opt := range q.Options {
			mark := " "
			if showAnswers && opt == q.CorrectAnswer {
				mark = "*"
			}
			fmt.Fprintf(&sb, "%s %c) %s\n", mark, 'A'+rune(j%26), opt)
		}
		if showAnswers && q.Explanation != "" {
			sb.WriteString("\n" + q.Explanation + "\n")
		}
		p.printBox(fmt.Sprintf("QUESTION %d/%d", i+1, len(quiz.Questions)), strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintInsight outputs a compact view of an industry analysis.
func (p *Printer) PrintInsight(industry string, data *types.InsightData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Growth:   %.1f%%\n", data.GrowthRate)
	fmt.Fprintf(&sb, "Demand:   %s\n", data.DemandLevel)
	fmt.Fprintf(&sb, "Outlook:  %s\n", data.MarketOutlook)

	if len(data.SalaryRanges) > 0 {
		sb.WriteString("\nSalary ranges:\n")
		count := min(len(data.SalaryRanges), maxItemsToShow)
		for _, r := range data.SalaryRanges[:count] {
			fmt.Fprintf(&sb, "  • %s: %.0f-%.0f (median %.0f)", r.Role, r.Min, r.Max, r.Median)
			if r.Location != "" {
				fmt.Fprintf(&sb, ", %s", r.Location)
			}
			sb.WriteString("\n")
		}
		if len(data.SalaryRanges) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(data.SalaryRanges)-maxItemsToShow)
		}
	}

	writeList(&sb, "Top skills", data.TopSkills)
	writeList(&sb, "Key trends", data.KeyTrends)
	writeList(&sb, "Recommended", data.RecommendedSkills)

	p.printBox("INDUSTRY INSIGHTS: "+strings.ToUpper(industry), strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	count := min(len(items), maxItemsToShow)
	fmt.Fprintf(sb, "\n%s: %s", title, strings.Join(items[:count], ", "))
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, " (+%d)", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}
