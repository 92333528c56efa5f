package llm

import (
	"fmt"

	"github.com/snappy-loop/dearme/internal/models"
)

// PackagePrompt builds the script/tagline/tags prompt shared by every text provider.
func PackagePrompt(in models.ProjectInput) string {
	return fmt.Sprintf(`Write a dramatic letter script for a YouTube podcast channel called 'Dear Me'.
The letter should start with "Dear %s".
Relationship context: %s.
Tone: %s.
Topic/Situation: %s.

Also provide:
1. A catchy YouTube tagline for this episode.
2. A list of 10 relevant YouTube tags.

Make the script writing evocative and emotional. Focus on the "unspoken" feelings.
Return a JSON object with exactly three fields: "script", "tagline" and "tags".`,
		in.Target, in.Relationship, in.Tone, in.Topic)
}

// CoverPrompt builds the cover art prompt. Text in the image is explicitly forbidden.
func CoverPrompt(in models.ProjectInput) string {
	return fmt.Sprintf(`A cinematic, moody, artistic podcast cover art for a letter addressed to %s.
Theme: %s.
Style: Dramatic lighting, minimalist but evocative, soft focus, professional photography.
Emotional tone: %s.
NO TEXT or letters on the image. High quality, 1K resolution, square composition.`,
		in.Target, in.Topic, in.Tone)
}

// SpeechPrompt wraps a script with reading directions for the Gemini TTS model.
func SpeechPrompt(script string, tone models.Tone) string {
	return fmt.Sprintf("Read this letter script with a %s tone, slow pace, and deep emotion: %s", tone, script)
}
