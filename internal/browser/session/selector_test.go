// internal/browser/session/selector_test.go
package session

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
)

// sameOption compares query options by identity, since they are funcs.
func sameOption(a, b chromedp.QueryOption) bool {
	return fmt.Sprintf("%p", a) == fmt.Sprintf("%p", b)
}

func TestToSelector(t *testing.T) {
	tests := []struct {
		name    string
		loc     interaction.Locator
		wantSel string
		wantBy  chromedp.QueryOption
	}{
		{name: "xpath", loc: interaction.XPath(`//*[@id="login"]/button`), wantSel: `//*[@id="login"]/button`, wantBy: chromedp.BySearch},
		{name: "id", loc: interaction.ID("username"), wantSel: "username", wantBy: chromedp.ByID},
		{name: "css", loc: interaction.CSS("div.flash"), wantSel: "div.flash", wantBy: chromedp.ByQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toSelector(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSel, got.sel)
			assert.True(t, sameOption(tt.wantBy, got.by))
		})
	}
}

func TestToSelector_TextFilteredCSSUsesJSPath(t *testing.T) {
	loc := interaction.CSS("#menu").Descendant("li", "Log out", interaction.TextEquals)

	got, err := toSelector(loc)

	require.NoError(t, err)
	assert.True(t, sameOption(chromedp.ByJSPath, got.by))
	assert.Contains(t, got.sel, `document.querySelectorAll("#menu li")`)
	assert.Contains(t, got.sel, `=== "Log out"`)
}

func TestToSelector_Errors(t *testing.T) {
	_, err := toSelector(interaction.Locator{})
	assert.Error(t, err)

	_, err = toSelector(interaction.Locator{Strategy: "linkText", Value: "Home"})
	assert.ErrorContains(t, err, "unsupported locator strategy")
}

func TestElementExpr(t *testing.T) {
	assert.Equal(t,
		`document.evaluate("//a[@href='/x']", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
		elementExpr(interaction.XPath("//a[@href='/x']")))
	assert.Equal(t, `document.getElementById("password")`, elementExpr(interaction.ID("password")))
	assert.Equal(t, `document.querySelector("input[name=\"q\"]")`, elementExpr(interaction.CSS(`input[name="q"]`)))

	contains := elementExpr(interaction.CSS("ul").Descendant("li", "Blue", interaction.TextContains))
	assert.Contains(t, contains, `.includes("Blue")`)
}

func TestScriptCall(t *testing.T) {
	src, dst := interaction.ID("a"), interaction.ID("b")

	got := scriptCall("return arguments.length;", []interaction.Locator{src, dst})

	assert.True(t, strings.HasPrefix(got, "(function() {"))
	assert.True(t, strings.HasSuffix(got, "})()"))
	assert.Contains(t, got, `const args = [document.getElementById("a"), document.getElementById("b")];`)
	assert.Contains(t, got, "return arguments.length;")
	assert.Contains(t, got, ".apply(null, args)")
}

func TestScriptCall_NoElements(t *testing.T) {
	got := scriptCall("return document.title;", nil)
	assert.Contains(t, got, "const args = [];")
}

func TestConditionExprs(t *testing.T) {
	loc := interaction.CSS(".spinner")
	assert.Contains(t, hiddenExpr(loc), `document.querySelector(".spinner")`)
	assert.Equal(t, `(document.querySelector(".spinner")) === null`, absentExpr(loc))

	unobscured := unobscuredExpr(interaction.ID("save"))
	assert.Contains(t, unobscured, `document.getElementById("save")`)
	assert.Contains(t, unobscured, "document.elementFromPoint(x, y)")
	assert.Contains(t, unobscured, "el.contains(hit)")
}

func TestCentre(t *testing.T) {
	x, y, ok := centre([]float64{10, 20, 30, 20, 30, 60, 10, 60})
	require.True(t, ok)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 40.0, y)

	_, _, ok = centre(nil)
	assert.False(t, ok)
}
