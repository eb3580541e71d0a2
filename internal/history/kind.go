// Package history keeps a bounded, newest-first log of generations and
// related actions, with tolerant parsing of legacy record shapes.
package history

import (
	"encoding/json"
	"strings"
)

// Kind classifies a history item.
type Kind string

const (
	KindStrategy      Kind = "strategy"
	KindVariants      Kind = "variants"
	KindContent       Kind = "content"
	KindOptimizer     Kind = "optimizer"
	KindABTest        Kind = "ab_test"
	KindCampaignBrief Kind = "campaign_brief"
	KindBriefShare    Kind = "brief_share"
	KindPRIntel       Kind = "pr_intel"
	KindCreatorIntel  Kind = "creator_intel"
	KindUnknown       Kind = "unknown"
)

// Kinds lists every known kind except KindUnknown.
var Kinds = []Kind{
	KindStrategy, KindVariants, KindContent, KindOptimizer, KindABTest,
	KindCampaignBrief, KindBriefShare, KindPRIntel, KindCreatorIntel,
}

var kindAliases = map[string]Kind{
	"word_optimizer":        KindOptimizer,
	"optimizer_suggestions": KindOptimizer,
	"optimizer_rewrite":     KindOptimizer,
	"abtest":                KindABTest,
	"a/b test":              KindABTest,
}

// ParseKind maps s to a Kind, case-insensitively. Legacy names map to
// their current kind and anything unrecognized becomes KindUnknown.
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k
	}
	return KindUnknown
}

// UnmarshalJSON parses any JSON value; non-strings become KindUnknown.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*k = KindUnknown
		return nil
	}
	*k = ParseKind(s)
	return nil
}
