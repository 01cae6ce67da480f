package enrichment

import "github.com/bob-rietveld/unheard-v3/internal/config"

// SchemaProperty is one node of an extraction schema. The wire shape is the
// JSON-schema subset the research agent accepts.
type SchemaProperty struct {
	Type        string                    `json:"type"`
	Description string                    `json:"description,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
}

// ExtractionSchema is the strict output contract sent with every agent
// request. Exactly two variants exist, selected by record type; they are
// fixed structures, never built per call.
type ExtractionSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
}

// SchemaForRecordType selects the extraction schema variant.
func SchemaForRecordType(recordType config.RecordType) ExtractionSchema {
	if recordType == config.RecordTypePerson {
		return PersonExtractionSchema
	}
	return CompanyExtractionSchema
}

var PersonExtractionSchema = ExtractionSchema{
	Type: "object",
	Properties: map[string]SchemaProperty{
		"headline":    {Type: "string", Description: "Professional headline or tagline"},
		"currentRole": {Type: "string", Description: "Current job title"},
		"company":     {Type: "string", Description: "Current company name"},
		"location":    {Type: "string", Description: "City, Country"},
		"summary":     {Type: "string", Description: "Professional bio summary"},
		"experience": {
			Type:        "array",
			Description: "Work experience history",
			Items: &SchemaProperty{
				Type: "object",
				Properties: map[string]SchemaProperty{
					"title":       {Type: "string", Description: "Job title"},
					"company":     {Type: "string", Description: "Company name"},
					"duration":    {Type: "string", Description: "Time period"},
					"description": {Type: "string", Description: "Role description"},
				},
			},
		},
		"education":           {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Education background"},
		"skills":              {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Professional skills"},
		"notableAchievements": {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Awards, publications, notable work"},
		"socialLinks": {
			Type:        "object",
			Description: "Social media and web profiles",
			Properties: map[string]SchemaProperty{
				"linkedin": {Type: "string"},
				"twitter":  {Type: "string"},
				"github":   {Type: "string"},
				"website":  {Type: "string"},
			},
		},
	},
}

var CompanyExtractionSchema = ExtractionSchema{
	Type: "object",
	Properties: map[string]SchemaProperty{
		"description":  {Type: "string", Description: "Company mission and what they do"},
		"industry":     {Type: "string", Description: "Primary industry classification"},
		"headquarters": {Type: "string", Description: "City, State/Country"},
		"yearFounded":  {Type: "string", Description: "Year the company was founded"},
		"teamSize":     {Type: "string", Description: "Approximate employee count or range"},
		"website":      {Type: "string", Description: "Official website URL"},
		"founders": {
			Type:        "array",
			Description: "Company founders and co-founders",
			Items: &SchemaProperty{
				Type: "object",
				Properties: map[string]SchemaProperty{
					"name":       {Type: "string", Description: "Full name of founder"},
					"role":       {Type: "string", Description: "Current title/role"},
					"background": {Type: "string", Description: "Brief bio or background"},
					"linkedin":   {Type: "string", Description: "LinkedIn profile URL"},
				},
			},
		},
		"leadership": {
			Type:        "array",
			Description: "Key leadership team members (CEO, CTO, etc.)",
			Items: &SchemaProperty{
				Type: "object",
				Properties: map[string]SchemaProperty{
					"name": {Type: "string"},
					"role": {Type: "string"},
				},
			},
		},
		"funding": {
			Type:        "array",
			Description: "Funding history",
			Items: &SchemaProperty{
				Type: "object",
				Properties: map[string]SchemaProperty{
					"roundType": {Type: "string", Description: "Seed, Series A, B, etc."},
					"amount":    {Type: "string", Description: "Amount raised with currency"},
					"date":      {Type: "string", Description: "Date in YYYY-MM format"},
					"investors": {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Lead investors"},
				},
			},
		},
		"totalFundingRaised": {Type: "string", Description: "Total funding raised with currency"},
		"recentNews": {
			Type:        "array",
			Description: "Recent news articles and announcements",
			Items: &SchemaProperty{
				Type: "object",
				Properties: map[string]SchemaProperty{
					"headline": {Type: "string"},
					"date":     {Type: "string"},
					"source":   {Type: "string"},
					"summary":  {Type: "string"},
				},
			},
		},
		"products":    {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Key products or services"},
		"keyMetrics":  {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Notable metrics (revenue, users, growth)"},
		"competitors": {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Main competitors"},
		"techStack":   {Type: "array", Items: &SchemaProperty{Type: "string"}, Description: "Known technologies used"},
	},
}
