package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

var (
	wordPattern      = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)?`)
	candidatePattern = regexp.MustCompile(`^[a-z0-9]{2,10}$`)
	tickerPattern    = regexp.MustCompile(`^[a-z0-9]{1,10}$`)
)

// fillerWords are never taken as a token candidate.
var fillerWords = map[string]struct{}{
	"the": {}, "my": {}, "a": {}, "an": {}, "me": {}, "current": {}, "latest": {},
	"token": {}, "coin": {}, "portfolio": {}, "balance": {}, "risk": {}, "it": {},
	"this": {}, "that": {}, "what": {}, "whats": {}, "what's": {}, "is": {}, "of": {},
	"price": {}, "cost": {}, "value": {}, "worth": {}, "for": {}, "today": {},
	"now": {}, "please": {}, "how": {}, "much": {}, "usd": {}, "in": {}, "get": {},
	"check": {},
}

// maxCandidateDistance bounds how many words may separate a keyword from its token.
const maxCandidateDistance = 4

type aliasEntry struct {
	ref entity.TokenRef
	re  *regexp.Regexp
}

// symbolResolver implements port.SymbolResolver.
type symbolResolver struct {
	entries     []aliasEntry
	byAlias     map[string]entity.TokenRef
	quoteSuffix string
}

// NewSymbolResolver compiles the alias table. quoteSuffix is appended to
// constructed pair symbols ("USDT" gives "PEPEUSDT").
func NewSymbolResolver(table []entity.TokenAlias, quoteSuffix string) port.SymbolResolver {
	r := &symbolResolver{
		entries:     make([]aliasEntry, 0, len(table)),
		byAlias:     make(map[string]entity.TokenRef),
		quoteSuffix: strings.ToUpper(quoteSuffix),
	}

	for _, t := range table {
		ref := entity.TokenRef{
			Symbol:     t.Symbol,
			Name:       t.Name,
			PairSymbol: t.Pair,
			ProviderID: t.CoinGeckoID,
			Stablecoin: t.Stablecoin,
		}
		if ref.PairSymbol == "" && !ref.Stablecoin {
			ref.PairSymbol = ref.Symbol + r.quoteSuffix
		}

		aliases := append([]string(nil), t.Aliases...)
		// longest first so "usd coin" wins over a shorter prefix
		sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })

		parts := make([]string, 0, len(aliases))
		for _, a := range aliases {
			r.byAlias[a] = ref
			parts = append(parts, strings.ReplaceAll(regexp.QuoteMeta(a), " ", `\s+`))
		}
		if len(parts) == 0 {
			continue
		}
		r.entries = append(r.entries, aliasEntry{
			ref: ref,
			re:  regexp.MustCompile(`\b(?:` + strings.Join(parts, "|") + `)\b`),
		})
	}
	return r
}

// Resolve extracts a token from free text. Known aliases win; otherwise a
// candidate next to "price of", "get", "check" or before "price", "cost",
// "value" becomes a constructed reference.
func (r *symbolResolver) Resolve(text string) (entity.TokenRef, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return entity.TokenRef{}, false
	}

	bestPos, bestLen := -1, 0
	var best entity.TokenRef
	for _, e := range r.entries {
		loc := e.re.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		l := loc[1] - loc[0]
		if bestPos < 0 || loc[0] < bestPos || (loc[0] == bestPos && l > bestLen) {
			bestPos, bestLen, best = loc[0], l, e.ref
		}
	}
	if bestPos >= 0 {
		return best, true
	}

	candidate, ok := extractCandidate(wordPattern.FindAllString(lower, -1))
	if !ok {
		return entity.TokenRef{}, false
	}
	if ref, known := r.byAlias[candidate]; known {
		return ref, true
	}
	return r.construct(candidate), true
}

// ResolveSymbol resolves an exact ticker or alias.
func (r *symbolResolver) ResolveSymbol(symbol string) (entity.TokenRef, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(symbol), " "))
	if ref, ok := r.byAlias[key]; ok {
		return ref, true
	}
	if !tickerPattern.MatchString(key) {
		return entity.TokenRef{}, false
	}
	return r.construct(key), true
}

func (r *symbolResolver) construct(candidate string) entity.TokenRef {
	upper := strings.ToUpper(candidate)
	return entity.TokenRef{
		Symbol:      upper,
		Name:        upper,
		PairSymbol:  upper + r.quoteSuffix,
		ProviderID:  strings.ToLower(candidate),
		Constructed: true,
	}
}

func isCandidate(w string) bool {
	if _, filler := fillerWords[w]; filler {
		return false
	}
	return candidatePattern.MatchString(w)
}

// extractCandidate tries "(price of|get|check) <token>" first, then
// "<token> (price|cost|value)".
func extractCandidate(words []string) (string, bool) {
	for i, w := range words {
		lead := (w == "of" && i > 0 && words[i-1] == "price") || w == "get" || w == "check"
		if !lead {
			continue
		}
		for j := i + 1; j < len(words) && j <= i+maxCandidateDistance; j++ {
			if isCandidate(words[j]) {
				return words[j], true
			}
		}
	}

	for i, w := range words {
		if w != "price" && w != "cost" && w != "value" {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-maxCandidateDistance; j-- {
			if isCandidate(words[j]) {
				return words[j], true
			}
		}
	}
	return "", false
}
