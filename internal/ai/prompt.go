package ai

import "github.com/google/generative-ai-go/genai"

// systemInstruction is the fixed "Wanders" persona sent with every request.
const systemInstruction = `You are "Wanders", a world-class, friendly, and enthusiastic AI Tour Guide.
Your goal is to help travelers discover cities.
When a user mentions a city, provide:
1. A warm greeting and a brief, one-sentence interesting fact or vibe about the city.
2. The top 3 must-visit tourist attractions with a one-sentence engaging description for each.
3. One essential travel tip that locals know.

You must respond in a structured JSON format.
If the user's input is not a city or is ambiguous, try to ask for clarification while remaining in character.`

// cityInfoSchema is the wire contract with the model. Field names must stay in
// sync with the json tags on CityInfo and Attraction.
func cityInfoSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"cityName": {
				Type:        genai.TypeString,
				Description: "The name of the city being discussed.",
			},
			"intro": {
				Type:        genai.TypeString,
				Description: "A friendly intro and short interesting fact about the city.",
			},
			"attractions": {
				Type:        genai.TypeArray,
				Description: "List of top 3 attractions.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"name", "description"},
				},
			},
			"travelTip": {
				Type:        genai.TypeString,
				Description: "A unique travel tip for the city.",
			},
		},
		Required: []string{"cityName", "intro", "attractions", "travelTip"},
	}
}
