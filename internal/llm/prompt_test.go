package llm

import (
	"strings"
	"testing"

	"github.com/snappy-loop/dearme/internal/models"
)

func alexInput() models.ProjectInput {
	return models.ProjectInput{
		Target:       "Alex",
		Relationship: models.RelationshipEstranged,
		Tone:         models.ToneMelancholic,
		Topic:        "losing touch after college",
	}
}

func TestPackagePrompt_IncludesScenario(t *testing.T) {
	prompt := PackagePrompt(alexInput())

	for _, want := range []string{"Dear Alex", "estranged", "melancholic", "losing touch after college", "tagline", "tags"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestCoverPrompt_ForbidsText(t *testing.T) {
	prompt := CoverPrompt(alexInput())

	for _, want := range []string{"Alex", "losing touch after college", "melancholic", "NO TEXT"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSpeechPrompt(t *testing.T) {
	got := SpeechPrompt("Dear Alex, it has been years.", models.ToneHopeful)
	want := "Read this letter script with a hopeful tone, slow pace, and deep emotion: Dear Alex, it has been years."
	if got != want {
		t.Errorf("got %q", got)
	}
}
