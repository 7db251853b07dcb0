// internal/interaction/locator_test.go
package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Admin", want: "'Admin'"},
		{in: "O'Brien", want: `"O'Brien"`},
		{in: `say "hi"`, want: `'say "hi"'`},
		{in: `it's "x"`, want: `concat('it',"'",'s "x"')`},
		{in: "'", want: `"'"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, XPathLiteral(tt.in))
		})
	}
}

func TestLocator_Descendant(t *testing.T) {
	t.Run("xpath", func(t *testing.T) {
		got := XPath("//ul").Named("roles").Descendant("li", "Admin", TextEquals)
		assert.Equal(t, ByXPath, got.Strategy)
		assert.Equal(t, "//ul//li[normalize-space(.)='Admin']", got.Value)
		assert.Equal(t, "roles", got.Name)
	})

	t.Run("id becomes xpath", func(t *testing.T) {
		got := ID("country").Descendant("li", "New", TextContains)
		assert.Equal(t, ByXPath, got.Strategy)
		assert.Equal(t, "//*[@id='country']//li[contains(normalize-space(.),'New')]", got.Value)
	})

	t.Run("css keeps a text filter", func(t *testing.T) {
		got := CSS("#menu").Descendant("li", "Logout", TextContains)
		assert.Equal(t, ByCSS, got.Strategy)
		assert.Equal(t, "#menu li", got.Value)
		assert.Equal(t, "Logout", got.Text)
		assert.Equal(t, TextContains, got.Match)
	})
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, `by.xpath("//*[@id="login"]/button")`, XPath(`//*[@id="login"]/button`).String())
	assert.Equal(t, `login button by.id("login")`, ID("login").Named("login button").String())
	assert.Equal(t, `by.css("#menu li")[containing "Logout"]`, CSS("#menu").Descendant("li", "Logout", TextContains).String())
	assert.Equal(t, "current page", Page.String())
	assert.Equal(t, "<no target>", Locator{}.String())
}
