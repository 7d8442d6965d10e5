package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"wanderlust/internal/ai"
	"wanderlust/internal/modules/conversation"
)

func cityInfo(n int) *ai.CityInfo {
	info := &ai.CityInfo{
		CityName:  "Paris",
		Intro:     "The City of Light & romance.",
		TravelTip: "Buy a museum pass.",
	}
	for i := 0; i < n; i++ {
		info.Attractions = append(info.Attractions, ai.Attraction{
			Name:        []string{"Eiffel Tower", "Louvre", "Montmartre", "Orsay"}[i],
			Description: "A must-see.",
		})
	}
	return info
}

func TestWriteCard(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCard(&buf, cityInfo(3)); err != nil {
		t.Fatalf("WriteCard: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Paris", "Top 3 Attractions", "Eiffel Tower", "Louvre", "Montmartre", "Pro Travel Tip", "Buy a museum pass.", "City of Light &amp; romance."} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if !(strings.Index(out, "Eiffel Tower") < strings.Index(out, "Louvre") && strings.Index(out, "Louvre") < strings.Index(out, "Montmartre")) {
		t.Error("attractions out of order")
	}
}

func TestWriteCardRendersEveryAttraction(t *testing.T) {
	tests := []struct {
		n       int
		heading string
	}{
		{1, "Top 1 Attractions"},
		{4, "Top 4 Attractions"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteCard(&buf, cityInfo(tt.n)); err != nil {
			t.Fatalf("WriteCard: %v", err)
		}
		if !strings.Contains(buf.String(), tt.heading) {
			t.Errorf("expected %q", tt.heading)
		}
		if got := strings.Count(buf.String(), "<li>"); got != tt.n {
			t.Errorf("expected %d items, got %d", tt.n, got)
		}
	}
}

func TestWriteCardNil(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCard(&buf, nil); err != nil {
		t.Fatalf("WriteCard: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestCardText(t *testing.T) {
	out := CardText(cityInfo(3))
	for _, want := range []string{"== Paris ==", "Top 3 Attractions", "1. Eiffel Tower", "3. Montmartre", "Pro Travel Tip"} {
		if !strings.Contains(out, want) {
			t.Errorf("text card missing %q:\n%s", want, out)
		}
	}
	if CardText(nil) != "" {
		t.Error("expected empty text for nil info")
	}
}

func TestWriteShell(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC)
	msgs := []conversation.Message{
		{ID: "welcome", Role: conversation.RoleBot, Content: conversation.GreetingText, Timestamp: at},
		{ID: "u1", Role: conversation.RoleUser, Content: "Paris", Timestamp: at},
		{ID: "b1", Role: conversation.RoleBot, Content: conversation.AckText("Paris"), Timestamp: at, CityData: cityInfo(3)},
	}

	var buf bytes.Buffer
	if err := WriteShell(&buf, NewShellView(msgs, false, "Tok")); err != nil {
		t.Fatalf("WriteShell: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Wanderlust AI", "Virtual Tour Guide", "Online", "09:05", "Top 3 Attractions", `id="latest"`, `value="Tok"`, "required", "Built for Travelers"} {
		if !strings.Contains(out, want) {
			t.Errorf("shell missing %q", want)
		}
	}
	if strings.Count(out, `id="latest"`) != 1 {
		t.Error("expected exactly one latest anchor")
	}
	if strings.Contains(out, "Wanders is typing") {
		t.Error("unexpected typing indicator")
	}
	if strings.Contains(out, "disabled") || strings.Contains(out, "http-equiv") {
		t.Error("idle shell must not disable input or refresh")
	}
}

func TestWriteShellWhileTyping(t *testing.T) {
	msgs := []conversation.Message{
		{ID: "u1", Role: conversation.RoleUser, Content: "Tokyo", Timestamp: time.Now()},
	}
	var buf bytes.Buffer
	if err := WriteShell(&buf, NewShellView(msgs, true, "")); err != nil {
		t.Fatalf("WriteShell: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Wanders is typing", "disabled", `http-equiv="refresh"`} {
		if !strings.Contains(out, want) {
			t.Errorf("typing shell missing %q", want)
		}
	}
	if strings.Count(out, `id="latest"`) != 1 {
		t.Fatal("expected exactly one latest anchor")
	}
	if !strings.Contains(out, `id="latest">Wanders is typing`) {
		t.Error("latest anchor must sit on the typing indicator while a turn is in flight")
	}
}
