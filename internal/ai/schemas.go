package ai

import (
	"hrpilot/internal/types"

	"google.golang.org/genai"
)

// Response schemas. They are sent to the model and reused on decode to check
// that every required key is present.

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

func jdAnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":    {Type: genai.TypeString},
			"skills":     stringArray(),
			"experience": {Type: genai.TypeString},
			"salary":     {Type: genai.TypeString},
		},
		Required: []string{"summary", "skills", "experience", "salary"},
	}
}

func cvScoreSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":    {Type: genai.TypeInteger},
			"analysis": {Type: genai.TypeString},
			"status": {
				Type: genai.TypeString,
				Enum: []string{string(types.CVPass), string(types.CVFail), string(types.CVReview)},
			},
			"skillsMatch": stringArray(),
		},
		Required: []string{"score", "analysis", "status", "skillsMatch"},
	}
}

func onboardingPlanSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":       {Type: genai.TypeString},
				"task":     {Type: genai.TypeString},
				"dueDate":  {Type: genai.TypeString},
				"status":   {Type: genai.TypeString},
				"assignee": {Type: genai.TypeString},
			},
			Required: []string{"task", "dueDate", "assignee"},
		},
	}
}

func sentimentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"riskLevel": {
				Type: genai.TypeString,
				Enum: []string{
					string(types.RiskLow), string(types.RiskMedium),
					string(types.RiskHigh), string(types.RiskCritical),
				},
			},
			"score":       {Type: genai.TypeNumber},
			"summary":     {Type: genai.TypeString},
			"actionItems": stringArray(),
		},
		Required: []string{"riskLevel", "score", "summary", "actionItems"},
	}
}
