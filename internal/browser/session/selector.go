// internal/browser/session/selector.go
package session

import (
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// selector is a Locator translated into chromedp query terms.
type selector struct {
	sel string
	by  chromedp.QueryOption
}

// toSelector maps a Locator onto a chromedp query. CSS locators narrowed by
// text have no native query form, so they are resolved through a JS path.
func toSelector(loc interaction.Locator) (selector, error) {
	if loc.IsZero() {
		return selector{}, fmt.Errorf("locator %s does not address an element", loc)
	}
	switch loc.Strategy {
	case interaction.ByXPath:
		return selector{sel: loc.Value, by: chromedp.BySearch}, nil
	case interaction.ByID:
		return selector{sel: loc.Value, by: chromedp.ByID}, nil
	case interaction.ByCSS:
		if loc.Text != "" {
			return selector{sel: elementExpr(loc), by: chromedp.ByJSPath}, nil
		}
		return selector{sel: loc.Value, by: chromedp.ByQuery}, nil
	default:
		return selector{}, fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

// elementExpr is a JS expression evaluating to the element loc addresses, or
// null when there is none.
func elementExpr(loc interaction.Locator) string {
	switch loc.Strategy {
	case interaction.ByXPath:
		return fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`, quote(loc.Value))
	case interaction.ByID:
		return fmt.Sprintf(`document.getElementById(%s)`, quote(loc.Value))
	}
	if loc.Text == "" {
		return fmt.Sprintf(`document.querySelector(%s)`, quote(loc.Value))
	}
	text := `(el.textContent || '').replace(/\s+/g, ' ').trim()`
	pred := fmt.Sprintf(`%s === %s`, text, quote(loc.Text))
	if loc.Match == interaction.TextContains {
		pred = fmt.Sprintf(`%s.includes(%s)`, text, quote(loc.Text))
	}
	return fmt.Sprintf(`(Array.from(document.querySelectorAll(%s)).find(el => %s) || null)`, quote(loc.Value), pred)
}

// scriptCall wraps a function body so that elements are visible to it as
// arguments[0..n]. A missing element fails the call before the body runs.
func scriptCall(body string, elements []interaction.Locator) string {
	exprs := make([]string, len(elements))
	for i, el := range elements {
		exprs[i] = elementExpr(el)
	}
	var b strings.Builder
	b.WriteString("(function() {\n")
	fmt.Fprintf(&b, "const args = [%s];\n", strings.Join(exprs, ", "))
	b.WriteString("args.forEach(function(el, i) { if (!el) { throw new Error('element ' + i + ' not found'); } });\n")
	fmt.Fprintf(&b, "return (function() {\n%s\n}).apply(null, args);\n", body)
	b.WriteString("})()")
	return b.String()
}

// hiddenExpr is truthy once loc is hidden or detached.
func hiddenExpr(loc interaction.Locator) string {
	return fmt.Sprintf(`(function(el) {
	if (!el) { return true; }
	const style = window.getComputedStyle(el);
	return style.display === 'none' || style.visibility === 'hidden' || !(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
})(%s)`, elementExpr(loc))
}

// unobscuredExpr is truthy once the point at the centre of loc hits loc or one
// of its descendants, so an overlay covering it keeps the element unclickable.
// An element outside the viewport is scrolled to the centre first, as a click
// would do.
func unobscuredExpr(loc interaction.Locator) string {
	return fmt.Sprintf(`(function(el) {
	if (!el) { return false; }
	let r = el.getBoundingClientRect();
	let x = r.left + r.width / 2, y = r.top + r.height / 2;
	if (x < 0 || y < 0 || x >= window.innerWidth || y >= window.innerHeight) {
		el.scrollIntoView({block: 'center', inline: 'center'});
		r = el.getBoundingClientRect();
		x = r.left + r.width / 2;
		y = r.top + r.height / 2;
	}
	const hit = document.elementFromPoint(x, y);
	return hit !== null && (hit === el || el.contains(hit));
})(%s)`, elementExpr(loc))
}

// absentExpr is truthy once loc is detached.
func absentExpr(loc interaction.Locator) string {
	return fmt.Sprintf(`(%s) === null`, elementExpr(loc))
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
