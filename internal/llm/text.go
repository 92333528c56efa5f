package llm

import (
	"encoding/json"
	"strings"

	"github.com/snappy-loop/dearme/internal/models"
)

// ScriptFailureSentinel replaces a script the provider left out.
const ScriptFailureSentinel = "Failed to generate script."

// parsePackage decodes a provider's JSON answer into a GeneratedPackage.
// An empty answer is treated as {}. Absent fields get safe defaults; a body that is not
// a JSON object is a contract error.
func parsePackage(raw string) (*models.GeneratedPackage, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}

	var result struct {
		Script  string   `json:"script"`
		Tagline string   `json:"tagline"`
		Tags    []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, kindErr(ErrContract, "response is not a JSON package: %v", err)
	}

	pkg := &models.GeneratedPackage{
		Script:  result.Script,
		Tagline: result.Tagline,
		Tags:    make([]string, 0, len(result.Tags)),
	}
	if pkg.Script == "" {
		pkg.Script = ScriptFailureSentinel
	}
	for _, tag := range result.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			pkg.Tags = append(pkg.Tags, tag)
		}
	}
	return pkg, nil
}
