// Package css parses stylesheets into rules and computes selector
// specificity. The selector grammar is deliberately small: tag, #id, .class
// compounds with descendant combinators. Attribute selectors,
// pseudo-classes and at-rules are skipped, not errored, so a stylesheet
// using them still contributes its other rules.
package css

import (
	"strings"
)

// Declaration is one property-value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is one selector group with its declarations.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Stylesheet is a parsed stylesheet, rules in source order.
type Stylesheet struct {
	Rules []Rule
}

// Specificity is a CSS selector specificity triple.
type Specificity struct {
	ID, Class, Element int
}

// Compare returns <0, 0 or >0 as a is less, equally or more specific than b.
func (a Specificity) Compare(b Specificity) int {
	if a.ID != b.ID {
		return a.ID - b.ID
	}
	if a.Class != b.Class {
		return a.Class - b.Class
	}
	return a.Element - b.Element
}

// Parse parses stylesheet text. Malformed rules are skipped; Parse never
// fails on bad input, it just yields fewer rules.
func Parse(content string) *Stylesheet {
	sheet := &Stylesheet{}
	content = stripComments(content)
	for _, ruleText := range splitRules(content) {
		if rule, ok := parseRule(ruleText); ok {
			sheet.Rules = append(sheet.Rules, rule)
		}
	}
	return sheet
}

func parseRule(text string) (Rule, bool) {
	open := strings.IndexByte(text, '{')
	if open < 0 {
		return Rule{}, false
	}
	selectorText := strings.TrimSpace(text[:open])
	if selectorText == "" || strings.HasPrefix(selectorText, "@") {
		return Rule{}, false
	}
	body := strings.TrimSuffix(strings.TrimSpace(text[open+1:]), "}")

	var rule Rule
	for _, sel := range strings.Split(selectorText, ",") {
		if sel = strings.TrimSpace(sel); sel != "" {
			rule.Selectors = append(rule.Selectors, sel)
		}
	}
	if len(rule.Selectors) == 0 {
		return Rule{}, false
	}
	rule.Declarations = ParseDeclarations(body)
	return rule, len(rule.Declarations) > 0
}

// ParseDeclarations parses a declaration block body ("color: red; ...").
// Also used directly for style="" attributes.
func ParseDeclarations(body string) []Declaration {
	var out []Declaration
	for _, decl := range strings.Split(body, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:colon]))
		val := strings.TrimSpace(decl[colon+1:])
		important := false
		if strings.HasSuffix(val, "!important") {
			important = true
			val = strings.TrimSpace(strings.TrimSuffix(val, "!important"))
		}
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val, Important: important})
	}
	return out
}

// ComputeSpecificity scores a selector: one ID point per #, one class point
// per ., one element point per bare tag in the compound chain.
func ComputeSpecificity(selector string) Specificity {
	var s Specificity
	for _, part := range strings.Fields(selector) {
		i := 0
		for i < len(part) {
			switch part[i] {
			case '#':
				s.ID++
				i = compoundEnd(part, i+1)
			case '.':
				s.Class++
				i = compoundEnd(part, i+1)
			case '*':
				i++
			default:
				s.Element++
				i = compoundEnd(part, i)
			}
		}
	}
	return s
}

func compoundEnd(s string, from int) int {
	for from < len(s) && s[from] != '#' && s[from] != '.' {
		from++
	}
	return from
}

func stripComments(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "/*")
		if start < 0 {
			b.WriteString(content)
			return b.String()
		}
		b.WriteString(content[:start])
		end := strings.Index(content[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		content = content[start+2+end+2:]
	}
}

// splitRules cuts stylesheet text at top-level closing braces, keeping
// nested braces (at-rule bodies) inside one chunk so parseRule can reject
// them whole.
func splitRules(content string) []string {
	var rules []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				cur.WriteByte(ch)
				rules = append(rules, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.WriteByte(ch)
	}
	return rules
}
