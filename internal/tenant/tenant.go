// Package tenant resolves the branding of the real-estate agent a
// questionnaire runs for.
package tenant

import (
	"html"
	"net"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultBaseDomain is the parent domain tenants are hosted under.
const DefaultBaseDomain = "neko24.de"

// Config is one agent's branding and contact data.
type Config struct {
	Logo         string `json:"logo"`
	Farbe        string `json:"farbe"`
	Anrede       string `json:"anrede"`
	MaklerName   string `json:"maklerName"`
	LeadEmail    string `json:"leadEmail"`
	Telefon      string `json:"telefon"`
	Adresse      string `json:"adresse"`
	BueroStrasse string `json:"bueroStrasse"`
	BueroPLZ     string `json:"bueroPLZ"`
	BueroStadt   string `json:"bueroStadt"`
}

// Default returns the built-in configuration used when no tenant file
// applies.
func Default() Config {
	return Config{
		Logo:         "/logo-default.png",
		Farbe:        "#0B70A9",
		Anrede:       "Herzlich Willkommen zur Immobilienbewertung",
		MaklerName:   "Ihr Immobilienexperte",
		LeadEmail:    "kontakt@ihre-domain.de",
		Telefon:      "+49 123 4567890",
		Adresse:      "Hauptstraße 1, 12345 Beispielstadt",
		BueroStrasse: "Siebengebirgsstr. 59",
		BueroPLZ:     "53639",
		BueroStadt:   "Königswinter",
	}
}

// Subdomain returns the tenant id for host, or "" when host is not a
// direct child of baseDomain. A port suffix is ignored.
func Subdomain(host, baseDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	baseDomain = strings.ToLower(strings.Trim(baseDomain, "."))
	if baseDomain == "" {
		return ""
	}

	sub, ok := strings.CutSuffix(host, "."+baseDomain)
	if !ok || sub == "" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	policyOnce.Do(func() { policy = bluemonday.StrictPolicy() })
	return policy
}

// Sanitized returns c with markup stripped from every text field. Entities
// are decoded again since the result is shown as plain text.
func (c Config) Sanitized() Config {
	p := strict()
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
	}
	return Config{
		Logo:         clean(c.Logo),
		Farbe:        clean(c.Farbe),
		Anrede:       clean(c.Anrede),
		MaklerName:   clean(c.MaklerName),
		LeadEmail:    clean(c.LeadEmail),
		Telefon:      clean(c.Telefon),
		Adresse:      clean(c.Adresse),
		BueroStrasse: clean(c.BueroStrasse),
		BueroPLZ:     clean(c.BueroPLZ),
		BueroStadt:   clean(c.BueroStadt),
	}
}

// Office returns the office address as a single line.
func (c Config) Office() string {
	return strings.TrimSpace(c.BueroStrasse + ", " + strings.TrimSpace(c.BueroPLZ+" "+c.BueroStadt))
}
