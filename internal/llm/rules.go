package llm

import (
	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/messages"
)

const maxTaskDescription = 500

// DecideAction maps a classified, extracted message onto the single
// action to execute. The decision is rule-based over the category
// and whether a case already exists; no model call is involved.
func DecideAction(
	msg *messages.Message,
	classification Classification,
	entities ExtractedEntities,
	existing *cases.Case,
) *actions.Action {
	category := classification.Category

	if category == CategoryAdmin || category == CategoryIrrelevant {
		action := actions.NewAction(actions.TypeIgnore, msg.ID, nil)
		if existing != nil {
			action.CaseID = existing.ID
		}
		return action
	}

	missingFields := entities.MissingFields

	var actionType actions.Type
	if existing != nil {
		switch {
		case category == CategoryLoAResponse && len(entities.FieldUpdates) > 0:
			actionType = actions.TypeUpdateCase
		case category == CategoryLoAMissingInfo:
			if len(missingFields) == 0 {
				missingFields = existing.MissingFields()
			}
			actionType = actions.TypeDraftFollowupEmail
		case category == CategoryClientTask:
			actionType = actions.TypeCreateTask
		case category == CategoryLoAChase:
			actionType = actions.TypeInitiateLoAChase
		case len(entities.FieldUpdates) > 0:
			actionType = actions.TypeUpdateCase
		default:
			actionType = actions.TypeIgnore
		}
	} else {
		switch category {
		case CategoryClientTask, CategoryLoAResponse, CategoryLoAMissingInfo, CategoryLoAChase:
			actionType = actions.TypeCreateCase
		default:
			actionType = actions.TypeIgnore
		}
	}

	entities.MissingFields = missingFields
	return buildAction(actionType, msg, category, entities, existing)
}

// buildAction assembles an action of the given type with parameters
// derived from the extracted entities.
func buildAction(
	actionType actions.Type,
	msg *messages.Message,
	category Category,
	entities ExtractedEntities,
	existing *cases.Case,
) *actions.Action {
	fieldUpdates := entities.FieldUpdates
	if fieldUpdates == nil {
		fieldUpdates = map[string]string{}
	}
	missingFields := entities.MissingFields
	if missingFields == nil {
		missingFields = []string{}
	}

	params := map[string]any{
		"client_name":    entities.ClientName,
		"title":          entities.CaseTitle,
		"field_updates":  toAnyMap(fieldUpdates),
		"missing_fields": missingFields,
	}

	if actionType == actions.TypeCreateCase {
		caseType := cases.TypeGeneral
		if category == CategoryLoAChase || category == CategoryLoAMissingInfo || category == CategoryLoAResponse {
			caseType = cases.TypeLoA
		}
		params["case_type"] = string(caseType)
		if caseType == cases.TypeLoA {
			params["required_fields"] = append([]string{}, cases.DefaultLoARequiredFields...)
		}
	}

	if actionType == actions.TypeCreateTask || actionType == actions.TypeCompleteTask {
		title := entities.CaseTitle
		if title == "" {
			title = "Client task"
		}
		params["title"] = title

		description := msg.Content.Text()
		if len(description) > maxTaskDescription {
			description = description[:maxTaskDescription]
		}
		params["description"] = description
	}

	action := actions.NewAction(actionType, msg.ID, params)
	if existing != nil {
		action.CaseID = existing.ID
	}
	return action
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
