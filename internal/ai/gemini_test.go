package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

// fakeGenerator is a test double for *genai.GenerativeModel.
type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls int
	last  []genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.last = parts
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func TestFetchCityInfoSuccess(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(parisJSON[:40], parisJSON[40:])}
	p := &GeminiProvider{model: gen}

	info, err := p.FetchCityInfo(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("FetchCityInfo: %v", err)
	}
	if info.CityName != "Paris" {
		t.Fatalf("expected Paris, got %q", info.CityName)
	}
	if len(gen.last) != 1 || gen.last[0] != genai.Text("Paris") {
		t.Fatalf("expected the raw query as the only part, got %#v", gen.last)
	}
}

func TestFetchCityInfoNoCaching(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(parisJSON)}
	p := &GeminiProvider{model: gen}

	for i := 0; i < 2; i++ {
		if _, err := p.FetchCityInfo(context.Background(), "Paris"); err != nil {
			t.Fatalf("FetchCityInfo #%d: %v", i, err)
		}
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.calls)
	}
}

func TestFetchCityInfoFailures(t *testing.T) {
	apiErr := errors.New("503 unavailable")
	cases := []struct {
		name   string
		gen    *fakeGenerator
		target error
	}{
		{"transport error", &fakeGenerator{err: apiErr}, apiErr},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}, ErrEmptyResponse},
		{"nil content", &fakeGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}, ErrEmptyResponse},
		{"blank text", &fakeGenerator{resp: textResponse("  ")}, ErrEmptyResponse},
		{"clarification prose", &fakeGenerator{resp: textResponse("Which Springfield do you mean?")}, ErrDecode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &GeminiProvider{model: tc.gen}
			_, err := p.FetchCityInfo(context.Background(), "Xyzzyplonk123")
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v in chain, got %v", tc.target, err)
			}
		})
	}
}

func TestConfigureModel(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, 0.4)

	if model.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON mime type, got %q", model.ResponseMIMEType)
	}
	if model.SystemInstruction == nil || len(model.SystemInstruction.Parts) != 1 {
		t.Fatal("expected a single-part system instruction")
	}
	if got := model.SystemInstruction.Parts[0].(genai.Text); string(got) != systemInstruction {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if model.Temperature == nil || *model.Temperature != 0.4 {
		t.Fatalf("expected temperature 0.4, got %v", model.Temperature)
	}

	schema := model.ResponseSchema
	if schema == nil || schema.Type != genai.TypeObject {
		t.Fatal("expected object schema")
	}
	want := map[string]bool{"cityName": true, "intro": true, "attractions": true, "travelTip": true}
	for _, r := range schema.Required {
		delete(want, r)
	}
	if len(want) != 0 {
		t.Fatalf("schema is missing required fields: %v", want)
	}
	items := schema.Properties["attractions"].Items
	if items == nil || len(items.Required) != 2 {
		t.Fatalf("expected attraction items to require name and description, got %+v", items)
	}
}
