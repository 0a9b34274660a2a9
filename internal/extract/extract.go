// Package extract turns free-form model output into a bounded list of
// recommendation sentences. Every stage is a pure function over []string so
// each can be tested on its own; Extract composes them.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rgehrsitz/taxpilot/internal/domain"
)

// Fixed labels stamped on every extracted recommendation
const (
	RecommendationTitle = "Tax Recommendation"
	ImpactLabel         = "High Priority"
)

// fallbackStatements are appended, in rotation, when the text yields too few
// usable candidates.
var fallbackStatements = []string{
	"Consider consulting with a tax professional for personalized advice.",
	"Review your tax planning strategy quarterly to optimize deductions.",
	"Maintain detailed records of all financial transactions for tax purposes.",
}

// FallbackStatements returns a copy of the canned fallback rotation
func FallbackStatements() []string {
	return append([]string(nil), fallbackStatements...)
}

// Config holds the pipeline thresholds
type Config struct {
	MinCandidateWords int // candidate lines need strictly more words than this
	MinSentenceWords  int // fallback sentences need strictly more words than this
	MinResults        int
	MaxResults        int
	Fallbacks         []string // padding statements, used in rotation
}

// DefaultConfig returns the standard thresholds: >10 words, >5 words, 3..5 results
func DefaultConfig() Config {
	return Config{
		MinCandidateWords: 10,
		MinSentenceWords:  5,
		MinResults:        3,
		MaxResults:        5,
		Fallbacks:         FallbackStatements(),
	}
}

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid extractor config")

// Validate checks the result bounds are usable
func (c Config) Validate() error {
	if c.MinResults < 1 {
		return fmt.Errorf("%w: min results must be at least 1, got %d", ErrInvalidConfig, c.MinResults)
	}
	if c.MaxResults < c.MinResults {
		return fmt.Errorf("%w: max results %d below min results %d", ErrInvalidConfig, c.MaxResults, c.MinResults)
	}
	if c.MinCandidateWords < 0 || c.MinSentenceWords < 0 {
		return fmt.Errorf("%w: word thresholds cannot be negative", ErrInvalidConfig)
	}
	if len(c.Fallbacks) == 0 {
		return fmt.Errorf("%w: at least one fallback statement is required", ErrInvalidConfig)
	}
	for i, f := range c.Fallbacks {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: fallback %d is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}

var (
	// blank-line runs or a bold "**Header:**" marker
	sectionBreak = regexp.MustCompile(`\n\s*\n+|\*\*[^*]+:\*\*`)
	// emphasis markers and square brackets
	emphasis = regexp.MustCompile(`\*+|[\[\]]`)
	// a leading bullet glyph, dash or numbered-list marker
	leadingBullet = regexp.MustCompile(`^\s*(?:[-•*+]\s*|\d+[.)]\s+)`)
	// a period followed by whitespace
	sentenceBreak = regexp.MustCompile(`\.\s+`)
	// lines made only of markup characters
	markupOnly = regexp.MustCompile(`^[\s*#_\-=•>|]+$`)
)

// Extractor runs the pipeline with a fixed Config
type Extractor struct {
	cfg Config
}

// New creates an extractor with the default thresholds
func New() *Extractor {
	return &Extractor{cfg: DefaultConfig()}
}

// NewWithConfig creates an extractor with validated custom thresholds
func NewWithConfig(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Fallbacks = append([]string(nil), cfg.Fallbacks...)
	return &Extractor{cfg: cfg}, nil
}

// Extract runs the full pipeline with the default thresholds
func Extract(raw string) []domain.ExtractedRecommendation {
	return New().Extract(raw)
}

// Extract returns between MinResults and MaxResults recommendations. It never
// fails: empty or unusable text degrades to the fallback statements.
func (e *Extractor) Extract(raw string) []domain.ExtractedRecommendation {
	candidates := ExtractCandidates(SplitSections(raw), e.cfg.MinCandidateWords)
	if len(candidates) < e.cfg.MinResults {
		candidates = SentenceFallback(candidates, e.cfg.MinSentenceWords)
	}
	candidates = PadToMinimum(candidates, e.cfg.MinResults, e.cfg.Fallbacks)
	candidates = Truncate(candidates, e.cfg.MaxResults)

	out := make([]domain.ExtractedRecommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.ExtractedRecommendation{
			Title:       RecommendationTitle,
			Description: c,
			Impact:      ImpactLabel,
		})
	}
	return out
}

// SplitSections splits raw text on blank lines and bold "**Header:**"
// markers, dropping empty sections.
func SplitSections(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var sections []string
	for _, s := range sectionBreak.Split(raw, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// ExtractCandidates splits each section into lines, drops header and markup
// lines, cleans the rest and keeps those with more than minWords words that
// do not end in a colon.
func ExtractCandidates(sections []string, minWords int) []string {
	var candidates []string
	for _, section := range sections {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if isHeaderLine(line) {
				continue
			}
			line = CleanLine(line)
			if WordCount(line) > minWords && !strings.HasSuffix(line, ":") {
				candidates = append(candidates, line)
			}
		}
	}
	return candidates
}

// CleanLine strips the leading bullet, emphasis markers and brackets
func CleanLine(line string) string {
	line = leadingBullet.ReplaceAllString(strings.TrimSpace(line), "")
	line = emphasis.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// SentenceFallback splits each candidate into sentences and keeps those with
// more than minWords words, each terminated by exactly one period.
func SentenceFallback(candidates []string, minWords int) []string {
	var sentences []string
	for _, c := range candidates {
		for _, s := range sentenceBreak.Split(c, -1) {
			s = strings.TrimSpace(s)
			if WordCount(s) <= minWords {
				continue
			}
			sentences = append(sentences, strings.TrimRight(s, ".")+".")
		}
	}
	return sentences
}

// PadToMinimum appends fallbacks in rotation, a full round at a time, until
// at least min items exist.
func PadToMinimum(items []string, min int, fallbacks []string) []string {
	if len(fallbacks) == 0 {
		return items
	}
	out := append([]string(nil), items...)
	for len(out) < min {
		out = append(out, fallbacks...)
	}
	return out
}

// Truncate keeps at most max items
func Truncate(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	return items[:max]
}

// WordCount counts whitespace-separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func isHeaderLine(line string) bool {
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, "**") || strings.HasPrefix(line, "#") {
		return true
	}
	return markupOnly.MatchString(line)
}
