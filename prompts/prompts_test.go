package prompts

import (
	"strings"
	"testing"
)

func TestRenderSystemInstruction(t *testing.T) {
	prompt, err := RenderSystemInstruction(119, "https://api.congress.gov/v3", []string{"list_bills", "call_endpoint"})
	if err != nil {
		t.Fatalf("Failed to render system instruction: %v", err)
	}

	expected := []string{
		"bills in front of Congress",
		"the current congress is the 119th",
		"https://api.congress.gov/v3",
		"- list_bills",
		"- call_endpoint",
		"call call_endpoint to get more information",
	}

	for _, e := range expected {
		if !strings.Contains(prompt, e) {
			t.Errorf("System instruction should contain '%s'", e)
		}
	}
}

func TestRenderSystemInstructionWithoutTools(t *testing.T) {
	prompt, err := RenderSystemInstruction(118, "http://localhost", nil)
	if err != nil {
		t.Fatalf("Failed to render system instruction: %v", err)
	}

	if strings.Contains(prompt, "Tools available to you") {
		t.Error("System instruction should not list tools when there are none")
	}
	if !strings.Contains(prompt, "118th") {
		t.Error("System instruction should mention the congress")
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{111: "111th", 112: "112th", 113: "113th", 119: "119th", 121: "121st", 122: "122nd", 123: "123rd"}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %s, want %s", n, got, want)
		}
	}
}
