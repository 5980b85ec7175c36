package parse

import (
	"regexp"
	"strings"
)

// LineClass is the outcome of classifying one body line.
type LineClass int

const (
	// ClassDiscard marks running-subtotal artifacts from the source
	// transcript: empty lines, lines with '=', bare total lines.
	ClassDiscard LineClass = iota
	ClassIncome
	ClassExpense
	ClassUnrecognized
)

// Match is the tagged result of classifying a line.
type Match struct {
	Class     LineClass
	AmountRaw string   // numeric substring, income/expense only
	Comment   string   // text after the amount, outside brackets
	Tags      []string // raw bracket tags, expense only
}

// Classifier evaluates an ordered list of line rules. The priority is
// fixed: discard, income, expense, unrecognized. Reordering changes
// behavior on ambiguous lines, so the rules are kept as an explicit
// sequence rather than a regex fallthrough.
type Classifier struct {
	totalRe   *regexp.Regexp
	incomeRe  *regexp.Regexp
	expenseRe *regexp.Regexp
	tagRe     *regexp.Regexp
}

// amountClass matches the numeric run of an entry: digits with optional
// whitespace thousands separators and a '.' or ',' decimal separator.
// Whitespace variants are already collapsed to ASCII by CleanText.
const amountClass = `[\d\s.,]+`

// NewClassifier builds the rule set. minusChars is the set of characters
// accepted as an expense prefix; currencySuffix is the optional currency
// marker after the amount (matched case-insensitively). Both are
// configuration, not hardcoded locale assumptions.
func NewClassifier(minusChars, currencySuffix string) *Classifier {
	minus := charClass(minusChars)
	suffix := ""
	if currencySuffix != "" {
		suffix = `(?i:` + regexp.QuoteMeta(currencySuffix) + `)?`
	}
	return &Classifier{
		totalRe:   regexp.MustCompile(`^` + minus + `?\s*\d[\d\s.,]*` + suffix + `\s*$`),
		incomeRe:  regexp.MustCompile(`^\+\s*(` + amountClass + `)` + suffix + `\s*(.*)$`),
		expenseRe: regexp.MustCompile(`^` + minus + `\s*(` + amountClass + `)` + suffix + `\s*(.*)$`),
		tagRe:     regexp.MustCompile(`\[([^\[\]]+)\]`),
	}
}

// Classify applies the rules in priority order to one trimmed body line.
func (c *Classifier) Classify(line string) Match {
	line = strings.TrimSpace(line)

	// 1. Subtotal artifacts are silently discarded.
	if line == "" || strings.ContainsRune(line, '=') || c.totalRe.MatchString(line) {
		return Match{Class: ClassDiscard}
	}

	// 2. Income: '+' followed by an amount, remainder is the comment.
	if m := c.incomeRe.FindStringSubmatch(line); m != nil {
		return Match{
			Class:     ClassIncome,
			AmountRaw: m[1],
			Comment:   strings.TrimSpace(m[2]),
		}
	}

	// 3. Expense: minus-family prefix; bracket tags anywhere in the line
	// become categories, the text outside brackets is the comment.
	if m := c.expenseRe.FindStringSubmatch(line); m != nil {
		var tags []string
		for _, t := range c.tagRe.FindAllStringSubmatch(line, -1) {
			tags = append(tags, t[1])
		}
		comment := strings.TrimSpace(c.tagRe.ReplaceAllString(m[2], ""))
		comment = strings.Join(strings.Fields(comment), " ")
		return Match{
			Class:     ClassExpense,
			AmountRaw: m[1],
			Comment:   comment,
			Tags:      tags,
		}
	}

	// 4. Everything else is unrecognized; the caller logs it.
	return Match{Class: ClassUnrecognized}
}

// charClass builds a regexp character class from a literal rune set.
func charClass(set string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range set {
		switch r {
		case '\\', ']', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}
