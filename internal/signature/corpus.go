package signature

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenDef pairs a reported token with the expression that detects it. The
// expressions cover camel-case, spaced, and separator-punctuated spellings.
type tokenDef struct {
	Token string
	Expr  string
}

// builtinTokens is the static signature corpus: cheat-module names,
// obfuscated class identifiers, and package paths of known mod malware.
// "Velocity" is a common English word, so it only counts when followed by a
// qualifying suffix (VelocityHack, velocity_bypass, "velocity setting", ...).
func builtinTokens() []tokenDef {
	return []tokenDef{
		{"KillAura", `kill[\s_.-]?aura`},
		{"AutoTotem", `auto[\s_.-]?totem`},
		{"AutoClicker", `auto[\s_.-]?click(er)?`},
		{"Aimbot", `aim[\s_.-]?bot`},
		{"AimAssist", `aim[\s_.-]?assist`},
		{"TriggerBot", `trigger[\s_.-]?bot`},
		{"Scaffold", `scaffold[\s_.-]?(hack|module|walk)?`},
		{"AntiKnockback", `anti[\s_.-]?(knockback|kb)`},
		{"Xray", `x[\s_.-]?ray`},
		{"ElytraFly", `elytra[\s_.-]?fly`},
		{"NoFall", `no[\s_.-]?fall`},
		{"Velocity", `velocity[\s_.-]?(hack|module|cheat|bypass|packet|horizontal|vertical|amount|factor|setting)`},
		{"Baritone", `baritone`},
		{"Wurst", `wurst`},
		{"LiquidBounce", `liquid[\s_.-]?bounce`},
		{"NekoClient", `nekoclient`},
		{"Fractureiser", `fractureiser`},
	}
}

// Pattern is one compiled corpus entry.
type Pattern struct {
	Token string
	re    *regexp.Regexp
}

// Corpus is the immutable compiled pattern table. Built once at startup and
// shared by every scanner; never mutated afterwards.
type Corpus struct {
	patterns    []Pattern
	alternation *regexp.Regexp
}

// Compile builds the corpus, dropping any tokens named in disabled. A
// pattern that fails to compile is fatal: nothing can be verified without
// the full table.
func Compile(disabled []string) (*Corpus, error) {
	off := make(map[string]bool, len(disabled))
	for _, tok := range disabled {
		off[strings.ToLower(tok)] = true
	}
	var c Corpus
	var exprs []string
	for _, def := range builtinTokens() {
		if off[strings.ToLower(def.Token)] {
			continue
		}
		re, err := regexp.Compile(`(?i)` + def.Expr)
		if err != nil {
			return nil, fmt.Errorf("SIG_COMPILE: token %s: %w", def.Token, err)
		}
		c.patterns = append(c.patterns, Pattern{Token: def.Token, re: re})
		exprs = append(exprs, "(?:"+def.Expr+")")
	}
	if len(c.patterns) == 0 {
		return nil, fmt.Errorf("SIG_COMPILE: empty corpus")
	}
	alt, err := regexp.Compile(`(?i)` + strings.Join(exprs, "|"))
	if err != nil {
		return nil, fmt.Errorf("SIG_COMPILE: alternation: %w", err)
	}
	c.alternation = alt
	return &c, nil
}

// Tokens returns the active token names, in corpus order.
func (c *Corpus) Tokens() []string {
	out := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		out[i] = p.Token
	}
	return out
}
