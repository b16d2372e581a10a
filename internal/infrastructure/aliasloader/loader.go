package aliasloader

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yml
var defaultTable []byte

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

type aliasFile struct {
	Tokens []entity.TokenAlias `yaml:"tokens"`
}

// AliasFileLoader reads the symbol alias table from a YAML file, or from the
// embedded default when no path is configured.
type AliasFileLoader struct {
	path   string
	logger port.Logger
}

// NewAliasLoader creates a new AliasFileLoader.
func NewAliasLoader(path string, log port.Logger) *AliasFileLoader {
	return &AliasFileLoader{path: path, logger: log}
}

// Load reads, normalizes and validates the table.
func (l *AliasFileLoader) Load() ([]entity.TokenAlias, error) {
	data := defaultTable
	source := "embedded"
	if l.path != "" {
		raw, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read alias file %s: %w", l.path, err)
		}
		data, source = raw, l.path
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("alias table %s: %w", source, err)
	}
	l.logger.Info("Alias table loaded", "source", source, "tokens", len(table))
	return table, nil
}

// Parse decodes a YAML alias table. Aliases are lower-cased and symbols
// upper-cased; an alias or symbol claimed by two entries is an error.
func Parse(data []byte) ([]entity.TokenAlias, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alias table: %w", err)
	}
	if len(f.Tokens) == 0 {
		return nil, fmt.Errorf("alias table is empty")
	}

	symbols := make(map[string]struct{}, len(f.Tokens))
	owners := make(map[string]string)
	out := make([]entity.TokenAlias, 0, len(f.Tokens))

	for i, t := range f.Tokens {
		t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
		if !symbolPattern.MatchString(t.Symbol) {
			return nil, fmt.Errorf("entry %d: invalid symbol %q", i, t.Symbol)
		}
		if _, dup := symbols[t.Symbol]; dup {
			return nil, fmt.Errorf("entry %d: duplicate symbol %s", i, t.Symbol)
		}
		symbols[t.Symbol] = struct{}{}

		if t.Name == "" {
			t.Name = t.Symbol
		}
		if t.CoinGeckoID == "" {
			t.CoinGeckoID = strings.ToLower(t.Symbol)
		}
		t.Pair = strings.ToUpper(strings.TrimSpace(t.Pair))

		aliases := make([]string, 0, len(t.Aliases)+1)
		seen := make(map[string]struct{})
		for _, a := range append(t.Aliases, t.Symbol) {
			a = strings.ToLower(strings.Join(strings.Fields(a), " "))
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			if owner, taken := owners[a]; taken {
				return nil, fmt.Errorf("alias %q claimed by both %s and %s", a, owner, t.Symbol)
			}
			owners[a] = t.Symbol
			aliases = append(aliases, a)
		}
		t.Aliases = aliases
		out = append(out, t)
	}
	return out, nil
}
