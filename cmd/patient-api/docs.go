package main

import "github.com/oncolife/oncolife/internal/platform/docs"

func buildDocs() *docs.Registry {
	r := docs.NewRegistry("OncoLife Patient API", version, "/api/v1")

	r.Add(docs.Resource{
		Name: "Registration",
		Schema: map[string]interface{}{
			"first_name":     map[string]interface{}{"type": "string"},
			"last_name":      map[string]interface{}{"type": "string"},
			"email":          map[string]interface{}{"type": "string"},
			"phone":          map[string]interface{}{"type": "string"},
			"date_of_birth":  map[string]interface{}{"type": "string", "format": "date"},
			"cancer_type":    map[string]interface{}{"type": "string"},
			"physician_uuid": map[string]interface{}{"type": "string", "format": "uuid"},
			"clinic_uuid":    map[string]interface{}{"type": "string", "format": "uuid"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/registration", Summary: "Register the authenticated subject as a patient", RequestRef: "Registration", Status: 201},
		},
	})

	r.Add(docs.Resource{
		Name: "Question",
		Schema: map[string]interface{}{
			"id":                   map[string]interface{}{"type": "string", "format": "uuid"},
			"question_text":        map[string]interface{}{"type": "string"},
			"category":             map[string]interface{}{"type": "string"},
			"share_with_physician": map[string]interface{}{"type": "boolean"},
			"is_answered":          map[string]interface{}{"type": "boolean"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/questions", Summary: "Create a question", RequestRef: "Question", ResponseRef: "Question", Status: 201},
			{Method: "GET", Path: "/questions", Summary: "List my questions", ResponseRef: "Question", Status: 200, Paginated: true},
			{Method: "GET", Path: "/questions/{id}", Summary: "Get a question", ResponseRef: "Question", Status: 200},
			{Method: "PATCH", Path: "/questions/{id}", Summary: "Update a question", RequestRef: "Question", ResponseRef: "Question", Status: 200},
			{Method: "DELETE", Path: "/questions/{id}", Summary: "Delete a question", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "DiaryEntry",
		Schema: map[string]interface{}{
			"id":           map[string]interface{}{"type": "string", "format": "uuid"},
			"entry_date":   map[string]interface{}{"type": "string", "format": "date"},
			"symptom_code": map[string]interface{}{"type": "string"},
			"severity":     map[string]interface{}{"type": "integer"},
			"notes":        map[string]interface{}{"type": "string"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/diary", Summary: "Create a diary entry", RequestRef: "DiaryEntry", ResponseRef: "DiaryEntry", Status: 201},
			{Method: "GET", Path: "/diary", Summary: "List my diary entries", ResponseRef: "DiaryEntry", Status: 200, Paginated: true},
			{Method: "GET", Path: "/diary/{id}", Summary: "Get a diary entry", ResponseRef: "DiaryEntry", Status: 200},
			{Method: "PATCH", Path: "/diary/{id}", Summary: "Update a diary entry", RequestRef: "DiaryEntry", ResponseRef: "DiaryEntry", Status: 200},
			{Method: "DELETE", Path: "/diary/{id}", Summary: "Delete a diary entry", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "ChemoDate",
		Schema: map[string]interface{}{
			"id":             map[string]interface{}{"type": "string", "format": "uuid"},
			"treatment_date": map[string]interface{}{"type": "string", "format": "date"},
			"regimen":        map[string]interface{}{"type": "string"},
			"cycle_number":   map[string]interface{}{"type": "integer"},
			"status":         map[string]interface{}{"type": "string", "enum": []string{"scheduled", "completed", "cancelled"}},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/chemo", Summary: "Create a chemo date", RequestRef: "ChemoDate", ResponseRef: "ChemoDate", Status: 201},
			{Method: "GET", Path: "/chemo", Summary: "List my chemo dates", ResponseRef: "ChemoDate", Status: 200, Paginated: true},
			{Method: "GET", Path: "/chemo/{id}", Summary: "Get a chemo date", ResponseRef: "ChemoDate", Status: 200},
			{Method: "PATCH", Path: "/chemo/{id}", Summary: "Update a chemo date", RequestRef: "ChemoDate", ResponseRef: "ChemoDate", Status: 200},
			{Method: "DELETE", Path: "/chemo/{id}", Summary: "Cancel a chemo date", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "Conversation",
		Schema: map[string]interface{}{
			"id":                 map[string]interface{}{"type": "string", "format": "uuid"},
			"conversation_state": map[string]interface{}{"type": "string", "enum": []string{"active", "completed", "abandoned"}},
			"started_at":         map[string]interface{}{"type": "string", "format": "date-time"},
			"completed_at":       map[string]interface{}{"type": "string", "format": "date-time"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/chat/conversations", Summary: "Start a conversation", ResponseRef: "Conversation", Status: 201},
			{Method: "GET", Path: "/chat/conversations", Summary: "List my conversations", ResponseRef: "Conversation", Status: 200, Paginated: true},
			{Method: "GET", Path: "/chat/conversations/{id}", Summary: "Get a conversation with its messages", ResponseRef: "Conversation", Status: 200},
			{Method: "PATCH", Path: "/chat/conversations/{id}", Summary: "Update conversation state", RequestRef: "Conversation", ResponseRef: "Conversation", Status: 200},
			{Method: "DELETE", Path: "/chat/conversations/{id}", Summary: "Delete a conversation and its messages", Status: 204},
			{Method: "POST", Path: "/chat/conversations/{id}/messages", Summary: "Append a message", Status: 201},
		},
	})

	r.Add(docs.Resource{
		Name: "OnboardingStatus",
		Schema: map[string]interface{}{
			"profile_completed":       map[string]interface{}{"type": "boolean"},
			"first_checkin_completed": map[string]interface{}{"type": "boolean"},
			"education_viewed":        map[string]interface{}{"type": "boolean"},
			"completed_at":            map[string]interface{}{"type": "string", "format": "date-time"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/onboarding/status", Summary: "Get my onboarding status", ResponseRef: "OnboardingStatus", Status: 200},
			{Method: "PUT", Path: "/onboarding/status", Summary: "Update onboarding steps", RequestRef: "OnboardingStatus", ResponseRef: "OnboardingStatus", Status: 200},
		},
	})

	r.Add(docs.Resource{
		Name: "EducationDelivery",
		Schema: map[string]interface{}{
			"delivery_id":  map[string]interface{}{"type": "string", "format": "uuid"},
			"session_id":   map[string]interface{}{"type": "string", "format": "uuid"},
			"content":      map[string]interface{}{"type": "string"},
			"delivered_at": map[string]interface{}{"type": "string", "format": "date-time"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/education/deliveries", Summary: "Assemble education for a completed symptom session", ResponseRef: "EducationDelivery", Status: 201},
			{Method: "GET", Path: "/education/documents", Summary: "List visible education documents", Status: 200, Paginated: true,
				Query: []docs.QueryParam{{Name: "symptom_code", Type: "string", Description: "filter by symptom"}}},
			{Method: "GET", Path: "/education/documents/{id}/download", Summary: "Presign a PDF download", Status: 200},
		},
	})

	return r
}
