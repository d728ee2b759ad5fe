package llm

import (
	"fmt"
	"strings"
)

func classifySystemPrompt() string {
	values := make([]string, len(Categories))
	descriptions := make([]string, len(Categories))
	for i, c := range Categories {
		values[i] = fmt.Sprintf("%q", string(c))
		descriptions[i] = fmt.Sprintf("- %s: %s", c, c.Description())
	}

	return fmt.Sprintf(`You classify inbound communications for a case processing system handling Letters of Authority (LoA) and related admin.
Return only strict JSON following this schema and constraints:
{
  "category": one of [%s],
  "confidence": number between 0 and 1 inclusive,
  "reasoning": short string (<= 200 chars),
  "is_relevant": boolean (false when category is IRRELEVANT or ADMIN)
}
Do not include code fences, preambles, or extra text. Ensure keys are exactly as specified.

More information about the categories:
%s`, strings.Join(values, ", "), strings.Join(descriptions, "\n"))
}

func classifyUserPrompt(text string) string {
	return fmt.Sprintf(`Classify the following message. Consider LoA workflows, provider responses, missing information requests, and general admin.

Message:
---
%s
---

Output strict JSON as specified.`, text)
}

func extractSystemPrompt() string {
	return `You extract structured entities for case processing in the LoA domain.
Return only strict JSON following this schema:
{
  "client_name": string|null,
  "case_title": string|null,
  "field_updates": {"<field_name>": "<value>"},
  "missing_fields": [string],
  "confidence": number between 0 and 1,
  "additional_context": {"notes": string}
}
Field naming rules:
  - Use lower_snake_case for keys in field_updates
  - Canonical keys when applicable: date_of_birth, national_insurance_number, plan_number, provider_name, address
Only include fields that are explicitly inferable from the message.`
}

func extractUserPrompt(category Category, text string) string {
	return fmt.Sprintf(`Message classification category: %s
Message classification description: %s

Extract entities from this message:
---
%s
---

Output strict JSON as specified.`, category, category.Description(), text)
}

func emailSystemPrompt() string {
	return `You draft clear, professional, concise emails to financial providers.
Return plain text only, no greetings beyond the email body, no signatures unless asked.
Keep tone polite and direct. UK English. 120-200 words. Include list formatting for missing fields.`
}

func emailUserPrompt(clientName, caseTitle string, missingFields []string) string {
	fieldsList := make([]string, len(missingFields))
	for i, f := range missingFields {
		fieldsList[i] = "- " + f
	}

	return fmt.Sprintf(`Draft a follow-up email to the provider about an LoA case.

Client name: %s
Case title: %s
Missing fields (bullet list):
%s

Constraints:
- Ask for the specific missing information above
- Reference the case succinctly
- Thank the recipient and request a response
- Return plain text only`, clientName, caseTitle, strings.Join(fieldsList, "\n"))
}
