package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
)

// Hints are contextual anchors pulled out of the provider's raw payload
// that steer the research agent toward the right entity.
type Hints struct {
	Domain      string
	Email       string
	LinkedinURL string
	CompanyName string
}

// BuildPrompt renders the natural-language research request for a record.
func BuildPrompt(recordType config.RecordType, name string, hints Hints) string {
	if recordType == config.RecordTypeCompany {
		parts := []string{
			fmt.Sprintf("Find comprehensive information about the company %q.", name),
			"Include: founders and their backgrounds, complete funding history with amounts and investors, recent news and announcements, products/services, team size, key business metrics, competitors, and tech stack.",
		}
		if hints.Domain != "" {
			parts = append(parts, fmt.Sprintf("Their website is %s.", hints.Domain))
		}
		parts = append(parts, "Use YYYY-MM format for dates and include currency in amounts.")
		return strings.Join(parts, " ")
	}

	parts := []string{
		fmt.Sprintf("Find comprehensive professional information about %q.", name),
		"Include: current role and company, work experience history, education, skills, notable achievements, and social profiles.",
	}
	if hints.CompanyName != "" {
		parts = append(parts, fmt.Sprintf("They work at %s.", hints.CompanyName))
	}
	if hints.Email != "" {
		parts = append(parts, fmt.Sprintf("Their email is %s.", hints.Email))
	}
	if hints.LinkedinURL != "" {
		parts = append(parts, fmt.Sprintf("Their LinkedIn is %s.", hints.LinkedinURL))
	}
	return strings.Join(parts, " ")
}

// ExtractHints digs hints and seed URLs out of a record's raw provider
// payload. For people that is a linkedin URL, the stored email and the
// company name; for companies, the website domain normalized to a URL.
func ExtractHints(rec *models.CrmRecord) (Hints, []string) {
	var hints Hints
	var urls []string

	values := rawValues(rec.RawData)

	if rec.RecordType == string(config.RecordTypePerson) {
		if linkedin := findLinkedinURL(values); linkedin != "" {
			hints.LinkedinURL = linkedin
			urls = append(urls, linkedin)
		}
		if rec.Email != "" {
			hints.Email = rec.Email
		}
		hints.CompanyName = findCompanyName(values)
		return hints, urls
	}

	if domain := findDomain(values); domain != "" {
		hints.Domain = domain
		if strings.HasPrefix(domain, "http") {
			urls = append(urls, domain)
		} else {
			urls = append(urls, "https://"+domain)
		}
	}
	return hints, urls
}

// rawValues returns the provider payload's "values" object when present,
// the payload itself otherwise.
func rawValues(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if values, ok := payload["values"].(map[string]any); ok {
		return values
	}
	return payload
}

// firstEntry returns the first element of an attribute's value list.
func firstEntry(values map[string]any, key string) map[string]any {
	arr, ok := values[key].([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	entry, _ := arr[0].(map[string]any)
	return entry
}

func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := entry[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func findLinkedinURL(values map[string]any) string {
	for _, key := range []string{"linkedin", "linkedin_url", "social_links"} {
		entry := firstEntry(values, key)
		if entry == nil {
			continue
		}
		if val := stringField(entry, "value", "url", "original_url"); strings.Contains(val, "linkedin") {
			return val
		}
	}
	return ""
}

func findDomain(values map[string]any) string {
	entry := firstEntry(values, "domains")
	if entry == nil {
		return ""
	}
	return stringField(entry, "domain", "value")
}

func findCompanyName(values map[string]any) string {
	entry := firstEntry(values, "company")
	if entry == nil {
		return ""
	}
	return stringField(entry, "value", "name")
}
