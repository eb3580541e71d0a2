// Package scoring rates copy variants against marketing criteria and picks
// a winner. A judge model is asked for JSON scores; when it is unavailable
// or its answer does not validate, a keyword heuristic is used instead.
package scoring

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/llmcall"
	scoringprompt "github.com/jackzampolin/presence/internal/prompts/scoring"
	"github.com/jackzampolin/presence/internal/providers"
)

// DefaultCriteria are used when a request names none.
var DefaultCriteria = []string{"Clarity", "Persuasion", "Brand-fit"}

// Sources of a score.
const (
	SourceJudge     = "judge"
	SourceHeuristic = "heuristic"
)

// Score is the rating of one variant.
type Score struct {
	Text   string         `json:"text"`
	Scores map[string]int `json:"scores"`
	Total  int            `json:"total"`
	Source string         `json:"source"`
}

// Completer runs a single-output prompt; generation.Engine implements it.
type Completer interface {
	Complete(ctx context.Context, prompt, fallback string) (string, *generation.Diagnostic)
}

// Scorer rates text.
type Scorer struct {
	judge  Completer
	logger *slog.Logger
}

// New creates a scorer. A nil judge always uses the heuristic.
func New(judge Completer, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{judge: judge, logger: logger}
}

// Score rates text on criteria.
func (s *Scorer) Score(ctx context.Context, text string, criteria []string, brandRules string) Score {
	if len(criteria) == 0 {
		criteria = DefaultCriteria
	}
	if s.judge != nil {
		if sc, ok := s.judgeScore(ctx, text, criteria, brandRules); ok {
			return sc
		}
	}
	return Heuristic(text, criteria)
}

// ScoreAll rates every text in order.
func (s *Scorer) ScoreAll(ctx context.Context, texts []string, criteria []string, brandRules string) []Score {
	out := make([]Score, len(texts))
	for i, t := range texts {
		out[i] = s.Score(ctx, t, criteria, brandRules)
	}
	return out
}

type judgeAnswer struct {
	Scores map[string]int `json:"scores"`
	Total  int            `json:"total"`
}

func (s *Scorer) judgeScore(ctx context.Context, text string, criteria []string, brandRules string) (Score, bool) {
	prompt, err := scoringprompt.Render(scoringprompt.Params{
		Text:       text,
		Criteria:   criteria,
		BrandRules: brandRules,
	})
	if err != nil {
		s.logger.Warn("failed to render judge prompt", "error", err)
		return Score{}, false
	}

	ctx = llmcall.WithPromptKey(ctx, scoringprompt.PromptKey)
	raw, diag := s.judge.Complete(ctx, prompt, "")
	if diag != nil {
		return Score{}, false
	}

	doc, err := providers.ParseStructuredJSON(raw)
	if err == nil {
		err = providers.ValidateStructuredJSON(scoringprompt.Schema(), doc)
	}
	var answer judgeAnswer
	if err == nil {
		err = json.Unmarshal(doc, &answer)
	}
	if err != nil {
		s.logger.Warn("judge answer rejected, using heuristic scores", "error", err)
		return Score{}, false
	}

	return Score{Text: text, Scores: answer.Scores, Total: answer.Total, Source: SourceJudge}, true
}

var (
	persuasionWords = []string{"save", "increase", "cut", "reduce", "grow", "book a demo"}
	hypeWords       = []string{"best-ever", "world's best", "guaranteed"}
)

// Heuristic scores text without a model. Criteria are matched by prefix:
// clarity rewards short copy, persuasion rewards outcome verbs, brand
// penalizes hype. Anything else scores 7.
func Heuristic(text string, criteria []string) Score {
	if len(criteria) == 0 {
		criteria = DefaultCriteria
	}
	lower := strings.ToLower(text)
	scores := make(map[string]int, len(criteria))
	total := 0
	for _, c := range criteria {
		name := strings.ToLower(strings.TrimSpace(c))
		v := 7
		switch {
		case strings.HasPrefix(name, "clarity"):
			if len(text) < 600 {
				v++
			}
		case strings.HasPrefix(name, "persuasion"):
			if containsAny(lower, persuasionWords) {
				v++
			}
		case strings.HasPrefix(name, "brand"):
			v = 8
			if containsAny(lower, hypeWords) {
				v -= 2
			}
		}
		scores[c] = v
		total += v
	}
	return Score{Text: text, Scores: scores, Total: total, Source: SourceHeuristic}
}

// Winner returns the index of the highest total; ties go to the earliest.
// It returns -1 for an empty slice.
func Winner(scores []Score) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s.Total > scores[best].Total {
			best = i
		}
	}
	return best
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
