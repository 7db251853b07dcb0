// internal/interaction/locator.go
package interaction

import (
	"fmt"
	"strings"
)

// Strategy is how a Locator's Value is interpreted by the driver.
type Strategy string

const (
	ByXPath Strategy = "xpath"
	ByCSS   Strategy = "css"
	ByID    Strategy = "id"
)

// TextMatch controls how a descendant's text is compared in Descendant.
type TextMatch int

const (
	// TextEquals matches the whitespace-normalized text exactly.
	TextEquals TextMatch = iota
	// TextContains matches any element whose text contains the needle.
	TextContains
)

// Locator is an opaque handle identifying a node in the rendered page. It is
// resolved by the driver on every call, so a Locator never goes stale itself.
type Locator struct {
	Strategy Strategy
	Value    string
	// Name is an optional human label used in logs and errors.
	Name string
	// Text narrows a CSS match to the element whose text satisfies Match.
	// XPath and ID locators fold text filters into the expression instead.
	Text  string
	Match TextMatch
}

// XPath returns a Locator for an XPath expression.
func XPath(expr string) Locator { return Locator{Strategy: ByXPath, Value: expr} }

// CSS returns a Locator for a CSS selector.
func CSS(selector string) Locator { return Locator{Strategy: ByCSS, Value: selector} }

// ID returns a Locator for an element id.
func ID(id string) Locator { return Locator{Strategy: ByID, Value: id} }

// Page is the pseudo-target used by page-level waits (URL, window titles).
var Page = Locator{Name: "current page"}

// Named returns a copy of l carrying a human label.
func (l Locator) Named(name string) Locator {
	l.Name = name
	return l
}

// IsZero reports whether l addresses no element.
func (l Locator) IsZero() bool { return l.Value == "" }

// Descendant returns a Locator for the first tag element under l whose text
// matches text. It is how list options and combo box entries are picked.
func (l Locator) Descendant(tag, text string, match TextMatch) Locator {
	pred := fmt.Sprintf("normalize-space(.)=%s", XPathLiteral(text))
	if match == TextContains {
		pred = fmt.Sprintf("contains(normalize-space(.),%s)", XPathLiteral(text))
	}

	switch l.Strategy {
	case ByXPath:
		return Locator{Strategy: ByXPath, Value: fmt.Sprintf("%s//%s[%s]", l.Value, tag, pred), Name: l.Name}
	case ByID:
		return Locator{Strategy: ByXPath, Value: fmt.Sprintf("//*[@id=%s]//%s[%s]", XPathLiteral(l.Value), tag, pred), Name: l.Name}
	default:
		return Locator{Strategy: ByCSS, Value: l.Value + " " + tag, Name: l.Name, Text: text, Match: match}
	}
}

// String renders the locator the way failures are reported, e.g.
// `by.xpath("//*[@id='login']/button")`.
func (l Locator) String() string {
	if l.IsZero() {
		if l.Name != "" {
			return l.Name
		}
		return "<no target>"
	}
	s := fmt.Sprintf(`by.%s("%s")`, l.Strategy, l.Value)
	if l.Text != "" {
		verb := "text"
		if l.Match == TextContains {
			verb = "containing"
		}
		s += fmt.Sprintf("[%s %q]", verb, l.Text)
	}
	if l.Name != "" {
		s = l.Name + " " + s
	}
	return s
}

// XPathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings holding both quote kinds are built with concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
