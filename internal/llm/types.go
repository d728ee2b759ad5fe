// Package llm implements the language-model boundary: message
// classification, entity extraction, rule-based action decisions,
// and follow-up email drafting. The OpenAI-compatible client is the
// production implementation; a scripted implementation replays
// expectations from message metadata for regression runs.
package llm

// Category is the closed set of message classifications.
type Category string

const (
	CategoryClientTask     Category = "CLIENT_TASK"
	CategoryLoAChase       Category = "LOA_CHASE"
	CategoryLoAMissingInfo Category = "LOA_MISSING_INFO"
	CategoryLoAResponse    Category = "LOA_RESPONSE"
	CategoryAdmin          Category = "ADMIN"
	CategoryIrrelevant     Category = "IRRELEVANT"
)

// Categories lists every valid category in prompt order.
var Categories = []Category{
	CategoryClientTask,
	CategoryLoAChase,
	CategoryLoAMissingInfo,
	CategoryLoAResponse,
	CategoryAdmin,
	CategoryIrrelevant,
}

// Description returns the human-friendly category description used
// for prompting.
func (c Category) Description() string {
	switch c {
	case CategoryClientTask:
		return "Client or advisor asking us to create/open a case or perform an action " +
			"(e.g., start an LoA, open a case, create/complete a task). Not a provider's response."
	case CategoryLoAChase:
		return "Follow-up or status check regarding an LoA (e.g., chasing a provider for updates, " +
			"asking when information will arrive)."
	case CategoryLoAMissingInfo:
		return "Provider indicates they cannot proceed and asks for specific missing information " +
			"required to process the LoA (e.g., DOB, NI number, plan/policy number)."
	case CategoryLoAResponse:
		return "Provider supplies requested information or confirms progress relevant to the LoA; " +
			"often includes structured details (policy/plan numbers, DOB, provider references) or attachments."
	case CategoryAdmin:
		return "Administrative/logistical content not requiring case actions (e.g., meeting invites, " +
			"out-of-office, newsletters, billing/invoice notices)."
	case CategoryIrrelevant:
		return "Spam or content unrelated to clients, cases, or LoA processing."
	default:
		return "Uncategorized message type."
	}
}

// Classification is the outcome of classifying a message.
// Relevant is always false for ADMIN and IRRELEVANT regardless of
// what the producer reported; Normalize enforces this.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Relevant   bool     `json:"is_relevant"`
}

// Normalize clamps confidence into [0,1] and forces the relevance
// flag consistent with the category.
func (c Classification) Normalize() Classification {
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	if c.Category == CategoryAdmin || c.Category == CategoryIrrelevant {
		c.Relevant = false
	}
	return c
}

// ParseCategory maps a raw category string, tolerating separator
// variants and a small set of synonyms. The second return reports
// whether the value was recognized.
func ParseCategory(s string) (Category, bool) {
	normalized := normalizeCategoryToken(s)

	switch normalized {
	case "MISSING_INFO":
		normalized = string(CategoryLoAMissingInfo)
	case "CHASE":
		normalized = string(CategoryLoAChase)
	case "RESPONSE":
		normalized = string(CategoryLoAResponse)
	}

	for _, c := range Categories {
		if string(c) == normalized {
			return c, true
		}
	}
	return "", false
}

// ExtractedEntities holds structured facts pulled from a message.
// FieldUpdates keys are canonicalized to lower_snake_case with
// synonym aliases folded onto the same canonical key.
type ExtractedEntities struct {
	ClientName    string            `json:"client_name,omitempty"`
	CaseTitle     string            `json:"case_title,omitempty"`
	FieldUpdates  map[string]string `json:"field_updates"`
	MissingFields []string          `json:"missing_fields"`
	Confidence    float64           `json:"confidence"`
	Context       map[string]any    `json:"additional_context,omitempty"`
}
