package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type CleanupOpts struct {
	// Normalize applies NFKC, rejoins hyphenated line breaks and tidies
	// whitespace.
	Normalize      bool
	CollapseSpaces bool
	Trim           bool
	BrokenUnicode  bool
	// SingleLine folds embedded line breaks into spaces.
	SingleLine bool
}

// FlowCleanup is applied to each run before it is joined into flow text.
var FlowCleanup = CleanupOpts{
	Normalize:      true,
	CollapseSpaces: true,
	Trim:           true,
	BrokenUnicode:  true,
	SingleLine:     true,
}

// Clean repairs a text run: invalid UTF-8 and replacement characters are
// dropped, compatibility forms such as ligatures and full-width letters are
// folded, hyphenated line breaks are rejoined and whitespace is collapsed.
func Clean(input string, opts CleanupOpts) string {
	if input == "" {
		return ""
	}

	if opts.BrokenUnicode {
		input = strings.ToValidUTF8(input, "")
		input = strings.ReplaceAll(input, "�", "")
	}

	if opts.Normalize {
		input = norm.NFKC.String(input)
		input = strings.ReplaceAll(input, "-\n", "")
		input = NormalizeText(input)
	}

	if opts.SingleLine {
		input = strings.ReplaceAll(input, "\n", " ")
	}

	if opts.CollapseSpaces {
		for strings.Contains(input, "  ") {
			input = strings.ReplaceAll(input, "  ", " ")
		}
	}

	if opts.Trim {
		input = strings.TrimSpace(input)
	}

	return input
}
