package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly, from a markdown code fence, or as an embedded object.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T.
// If direct parsing fails, it extracts JSON from a markdown code fence
// and retries. As a last resort it scans for the first JSON object
// embedded in surrounding prose. Returns ErrParseFailed if all attempts fail.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	if raw, ok := firstObject(content); ok {
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// firstObject extracts the first complete JSON object embedded in content.
// Models occasionally wrap structured output in explanatory prose.
func firstObject(content string) (string, bool) {
	idx := strings.IndexByte(content, '{')
	if idx == -1 {
		return "", false
	}

	parsed := gjson.Parse(content[idx:])
	if !parsed.IsObject() {
		return "", false
	}

	return parsed.Raw, true
}
