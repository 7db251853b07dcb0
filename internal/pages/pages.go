// Package pages holds the page objects of the application under test. A page
// object only names locations; steps drive them through the interaction layer.
package pages

import "github.com/xkilldash9x/scalpel-e2e/internal/interaction"

// LoginPage is the sign-in form.
type LoginPage struct {
	Route         string
	UsernameField interaction.Locator
	PasswordField interaction.Locator
	LoginButton   interaction.Locator
	SuccessMsg    interaction.Locator
}

// HomePage is where a signed-in user lands.
type HomePage struct {
	SuccessMsg interaction.Locator
	// SecureMarker is the path fragment of any page behind the login.
	SecureMarker string
}

var successFlash = interaction.XPath(`//div[contains(@class,"success")]`).Named("success message")

// Login returns the login page object.
func Login() LoginPage {
	return LoginPage{
		Route:         "/login",
		UsernameField: interaction.XPath(`//*[@id="username"]`).Named("username field"),
		PasswordField: interaction.XPath(`//*[@id="password"]`).Named("password field"),
		LoginButton:   interaction.XPath(`//*[@id="login"]/button`).Named("login button"),
		SuccessMsg:    successFlash,
	}
}

// Home returns the home page object.
func Home() HomePage {
	return HomePage{
		SuccessMsg:   successFlash,
		SecureMarker: "secure",
	}
}

// URL joins base and route without doubling the slash between them.
func URL(base, route string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if route != "" && route[0] != '/' {
		route = "/" + route
	}
	return base + route
}
