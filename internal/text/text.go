package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func IsBullet[T rune | string](v T) bool {
	bulletRunes := map[rune]bool{
		'•': true, '●': true, '○': true, '◦': true, '◯': true, '▪': true, '▫': true, '■': true, '□': true,
		'►': true, '▶': true, '▷': true, '➢': true, '➤': true, '★': true, '☆': true, '✦': true, '✧': true,
		'⁃': true, '‣': true, '⦿': true, '⁌': true, '⁍': true, '-': true, '–': true, '—': true, '*': true, '+': true,
		'·': true, 0xF0B7: true, 0xF076: true, 0xF0B6: true,
	}
	bulletStrings := map[string]bool{
		"`o`": true, "o": true,
	}

	switch any(v).(type) {
	case rune:
		return bulletRunes[any(v).(rune)]
	case string:
		s := any(v).(string)
		if r := []rune(s); len(r) == 1 {
			return bulletRunes[r[0]] || bulletStrings[s]
		}
		return bulletStrings[s]
	}
	return false
}

// Prepare folds compatibility characters (ligatures, full-width digits,
// ellipsis) and trims surrounding space so the shape predicates see one
// canonical form.
func Prepare(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func HasVisibleContent(text string) bool {
	for _, r := range text {
		if !unicode.IsSpace(r) && unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

func NormalizeText(input string) string {
	if input == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(input))
	lastSpace, lastWasNewline := true, false
	for _, c := range input {
		if c == '\r' {
			continue
		}
		if c == '\n' {
			if b.Len() > 0 {
				if s := b.String(); s[len(s)-1] == ' ' {
					b.Reset()
					b.WriteString(s[:len(s)-1])
				}
			}
			if !lastWasNewline {
				b.WriteByte('\n')
			}
			lastSpace, lastWasNewline = true, true
			continue
		}
		lastWasNewline = false
		if c == '\t' || c == '\f' || c == '\v' {
			c = ' '
		}
		if unicode.IsSpace(c) {
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(c)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " \n")
}

var headingKeywords = []string{"appendix", "chapter", "section", "heading", "article", "part", "annex", "schedule"}

func StartsWithHeadingKeyword(text string) bool {
	text = strings.TrimLeft(text, " ")
	lower := strings.ToLower(text)
	for _, kw := range headingKeywords {
		if !strings.HasPrefix(lower, kw) {
			continue
		}
		if len(text) == len(kw) {
			return true
		}
		if next := rune(text[len(kw)]); unicode.IsSpace(next) || next == ':' || next == '-' {
			return true
		}
	}
	return false
}

func StartsWithNumericHeading(text string) bool {
	text = strings.TrimLeft(text, " ")
	if text == "" {
		return false
	}
	seenDigit, seenSeparator, i := false, false, 0
	for i < len(text) {
		r := rune(text[i])
		if r >= '0' && r <= '9' {
			seenDigit = true
			i++
		} else if r == '.' || r == ')' || r == ':' || r == '-' {
			seenSeparator = true
			i++
		} else {
			break
		}
	}
	if !seenDigit || !seenSeparator || i >= len(text) {
		return false
	}
	next := rune(text[i])
	return unicode.IsSpace(next) || next == '-' || next == ')'
}

var (
	parenMarker   = regexp.MustCompile(`^\((?:\d{1,3}|[a-zA-Z]|[ivxlcIVXLC]{1,5})\)(?:\s|$)`)
	listMarker    = regexp.MustCompile(`^(?:\(\d{1,3}\)|\([a-zA-Z]\)|\([ivxlcIVXLC]{1,5}\)|[a-zA-Z][.)]|\d{1,3}[.)]|[•*\-])(?:\s|$)`)
	glossaryEntry = regexp.MustCompile(`^[A-Z][\w'&/().]*(?:\s[\w'&/().]+){0,5}\s*(?::|\s[-\x{2013}\x{2014}])\s+\S`)
	definition    = regexp.MustCompile(`(?i)^["\x{201C}\x{2018}'][^"\x{201D}\x{2019}']{1,80}["\x{201D}\x{2019}']\s+(?:means|shall mean|refers to|has the meaning|includes|is defined as)\b`)
	citeBracket   = regexp.MustCompile(`^\[(?:\d{1,3}|[A-Za-z][A-Za-z+.\-]*\d{2,4}[a-z]?)\]`)
	citeAuthors   = regexp.MustCompile(`^\d{1,3}\.\s+[A-Z][A-Za-z'\-]+,\s+(?:[A-Z]\.\s*)+`)
	caption       = regexp.MustCompile(`^(?:Table|TABLE|Tab\.|Figure|FIGURE|Fig\.)\s*[0-9IVXLC]+(?:[.\-:][0-9]+)*[.:]?(?:\s|$)`)
	leaderDots    = regexp.MustCompile(`(?:\.\s?){3,}|\x{2026}|(?:\x{00B7}\s?){3,}`)
	letterEntry   = regexp.MustCompile(`^(?:[A-Z]|[IVXLC]{1,5})\.\s+\S`)
)

// StartsWithBullet reports whether text opens with a bullet glyph or a list
// marker such as "1.", "a)", "(iv)" followed by a space.
func StartsWithBullet(text string) bool {
	text = strings.TrimLeft(text, " \t")
	if text == "" {
		return false
	}
	if IsBullet(strings.TrimSpace(text)) {
		return true
	}
	r := []rune(text)
	if IsBullet(r[0]) {
		return len(r) == 1 || unicode.IsSpace(r[1])
	}
	if parenMarker.MatchString(text) {
		return true
	}
	if isDigit(text[0]) || (len(text) >= 2 && isAlpha(text[0])) {
		i := 0
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == 0 {
			i = 1 // single letter marker
		}
		if i < len(text) && (text[i] == '.' || text[i] == ')') {
			return i+1 >= len(text) || unicode.IsSpace(rune(text[i+1]))
		}
	}
	return false
}

// IsListMarker matches the marker shapes found in the first column of list
// layouts: (n), (a), a., 1., •, - and *.
func IsListMarker(text string) bool {
	return listMarker.MatchString(Prepare(text))
}

func StartsWithGlossaryEntry(text string) bool { return glossaryEntry.MatchString(Prepare(text)) }
func StartsWithDefinition(text string) bool    { return definition.MatchString(Prepare(text)) }

func StartsWithReference(text string) bool {
	text = Prepare(text)
	return citeBracket.MatchString(text) || citeAuthors.MatchString(text)
}

func StartsWithCaption(text string) bool { return caption.MatchString(Prepare(text)) }

// HasLeaderDots reports dot leaders or an ellipsis anywhere in text.
func HasLeaderDots(text string) bool { return leaderDots.MatchString(text) }

// StartsWithSectionEntry matches the opening of a contents entry: a numbered
// or lettered heading, or a heading keyword.
func StartsWithSectionEntry(text string) bool {
	text = Prepare(text)
	return StartsWithNumericHeading(text) || StartsWithHeadingKeyword(text) || letterEntry.MatchString(text)
}

// StartsWithNumberedEntry reports a numeric entry start such as "2.1 Scope".
func StartsWithNumberedEntry(text string) bool {
	text = Prepare(text)
	if StartsWithNumericHeading(text) {
		return true
	}
	i := 0
	for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
		i++
	}
	return i > 0 && isDigit(text[0]) && i < len(text) && text[i] == ' '
}

// FirstWord returns the leading whitespace-delimited word of text.
func FirstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func CountUnicodeChars(text string) int { return len([]rune(text)) }
func isDigit(b byte) bool               { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool               { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
