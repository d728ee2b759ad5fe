package llm

import "strings"

// Keyword groups for fallback classification, checked in order.
// First group with any hit wins.
var (
	adminKeywords = []string{
		"unsubscribe", "out of office", "newsletter",
		"meeting", "invoice", "billing",
	}
	missingInfoKeywords = []string{
		"missing", "provide", "required",
		"need more", "can't process", "insufficient",
	}
	responseKeywords = []string{
		"attached", "signed loa", "authorised", "policy",
		"plan number", "dob", "ni number", "national insurance",
	}
	chaseKeywords = []string{
		"follow up", "chase", "status",
		"update on", "when can", "awaiting",
	}
	taskKeywords = []string{
		"open a case", "create case", "start loa",
		"onboard", "annual review", "task",
	}
)

// HeuristicClassification categorizes a message by keyword matching.
// It is the degradation path when the model is unreachable or its
// output cannot be parsed.
func HeuristicClassification(text, reason string) Classification {
	lower := strings.ToLower(text)

	category := CategoryIrrelevant
	relevant := false

	switch {
	case containsAny(lower, adminKeywords):
		category = CategoryAdmin
	case containsAny(lower, missingInfoKeywords):
		category = CategoryLoAMissingInfo
		relevant = true
	case containsAny(lower, responseKeywords):
		category = CategoryLoAResponse
		relevant = true
	case containsAny(lower, chaseKeywords):
		category = CategoryLoAChase
		relevant = true
	case containsAny(lower, taskKeywords):
		category = CategoryClientTask
		relevant = true
	}

	confidence := 0.5
	if relevant {
		confidence = 0.6
	}

	return Classification{
		Category:   category,
		Confidence: confidence,
		Reasoning:  reason,
		Relevant:   relevant,
	}.Normalize()
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
