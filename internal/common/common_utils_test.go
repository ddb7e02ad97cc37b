package common

import (
	"fmt"
	"testing"

	"yrhacks/hackbot/internal/models/dtos"
)

func TestFilterChoices(t *testing.T) {
	choices := []dtos.Choice{{Name: "Alpha"}, {Name: "alphabet"}, {Name: "Beta"}, {Name: "Gamma"}}

	got := FilterChoices(choices, "AL")
	if len(got) != 2 {
		t.Errorf("Expected two prefix matches, got %v", got)
	}
	if got := FilterChoices(choices, "eta"); len(got) != 0 {
		t.Errorf("Expected substring not to match, got %v", got)
	}
	if got := FilterChoices(choices, ""); len(got) != 4 {
		t.Errorf("Expected empty query to match all, got %v", got)
	}
	if got := FilterChoices(nil, "a"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

func TestFilterChoices_Cap(t *testing.T) {
	var many []dtos.Choice
	for i := 0; i < 40; i++ {
		many = append(many, dtos.Choice{Name: fmt.Sprintf("Team%d", i)})
	}
	if got := FilterChoices(many, "team"); len(got) != 25 {
		t.Errorf("Expected 25 choices, got %d", len(got))
	}
}
