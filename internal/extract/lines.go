// Package extract turns quiz fixture HTML into question drafts, either from visible text
// lines or from a literal data block inside the page's first script.
package extract

import (
	"regexp"
	"strings"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/util"
)

var (
	questionLine = regexp.MustCompile(`^\s*(\d+)[).—-]\s*(.+)`)
	optionLine   = regexp.MustCompile(`^\s*([a-dA-D])[).—-]\s*(.+)`)
)

// Draft is an extracted question before classification and persistence.
type Draft struct {
	Number       string
	Text         string
	Options      []string
	CorrectIndex int
	// Code lists sign codes separated by commas, used to look up an image.
	Code string
}

// ParseLines runs the question/option accumulator over text lines in order.
// The correctness marker ('*' or "(x)") is searched in the whole raw option line.
func ParseLines(lines []string) []Draft {
	var (
		drafts  []Draft
		current *Draft
	)
	flush := func() {
		if current != nil {
			drafts = append(drafts, *current)
			current = nil
		}
	}

	for _, line := range lines {
		if m := questionLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &Draft{Number: m[1], Text: m[2], Options: []string{}}
			continue
		}

		if current == nil {
			continue
		}

		if m := optionLine.FindStringSubmatch(line); m != nil {
			current.Options = append(current.Options, m[2])
			if hasCorrectMarker(line) {
				current.CorrectIndex = len(current.Options) - 1
			}
			continue
		}

		if len(current.Options) == 0 {
			current.Text += " " + line
		}
	}
	flush()

	return drafts
}

func hasCorrectMarker(line string) bool {
	return strings.Contains(line, "*") || strings.Contains(strings.ToLower(line), "(x)")
}

// Finalize drops drafts with empty text or fewer than domain.MinOptions options, then
// normalizes the rest to exactly domain.OptionCount options and bounded text.
func Finalize(drafts []Draft) []Draft {
	out := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		d.Text = strings.TrimSpace(d.Text)
		if d.Text == "" || len(d.Options) < domain.MinOptions {
			continue
		}

		options := make([]string, 0, domain.OptionCount)
		options = append(options, d.Options...)
		for len(options) < domain.OptionCount {
			options = append(options, domain.OptionPlaceholder)
		}
		d.Options = options[:domain.OptionCount]

		if d.CorrectIndex < 0 || d.CorrectIndex >= domain.OptionCount {
			d.CorrectIndex = 0
		}
		d.Text = util.TruncateRunes(d.Text, domain.MaxQuestionTextRunes)
		out = append(out, d)
	}
	return out
}
