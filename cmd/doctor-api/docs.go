package main

import "github.com/oncolife/oncolife/internal/platform/docs"

func buildDocs() *docs.Registry {
	r := docs.NewRegistry("OncoLife Doctor API", version, "/api/v1")

	r.Add(docs.Resource{
		Name: "Clinic",
		Schema: map[string]interface{}{
			"id":         map[string]interface{}{"type": "string", "format": "uuid"},
			"name":       map[string]interface{}{"type": "string"},
			"address":    map[string]interface{}{"type": "string"},
			"phone":      map[string]interface{}{"type": "string"},
			"fax_number": map[string]interface{}{"type": "string"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/clinics", Summary: "List clinics", ResponseRef: "Clinic", Status: 200, Paginated: true},
			{Method: "POST", Path: "/clinics", Summary: "Create a clinic (admin)", RequestRef: "Clinic", ResponseRef: "Clinic", Status: 201},
			{Method: "GET", Path: "/clinics/{id}", Summary: "Get a clinic", ResponseRef: "Clinic", Status: 200},
			{Method: "PATCH", Path: "/clinics/{id}", Summary: "Update a clinic (admin)", RequestRef: "Clinic", ResponseRef: "Clinic", Status: 200},
			{Method: "DELETE", Path: "/clinics/{id}", Summary: "Retire a clinic (admin)", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "Staff",
		Schema: map[string]interface{}{
			"id":         map[string]interface{}{"type": "string", "format": "uuid"},
			"clinic_id":  map[string]interface{}{"type": "string", "format": "uuid"},
			"first_name": map[string]interface{}{"type": "string"},
			"last_name":  map[string]interface{}{"type": "string"},
			"email":      map[string]interface{}{"type": "string"},
			"role":       map[string]interface{}{"type": "string", "enum": []string{"physician", "nurse", "admin"}},
			"npi":        map[string]interface{}{"type": "string"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/staff", Summary: "List staff", ResponseRef: "Staff", Status: 200, Paginated: true,
				Query: []docs.QueryParam{
					{Name: "clinic_id", Type: "string", Description: "filter by clinic"},
					{Name: "role", Type: "string", Description: "filter by role"},
				}},
			{Method: "POST", Path: "/staff", Summary: "Enroll a staff member (admin)", RequestRef: "Staff", ResponseRef: "Staff", Status: 201},
			{Method: "GET", Path: "/staff/{id}", Summary: "Get a staff member", ResponseRef: "Staff", Status: 200},
			{Method: "PATCH", Path: "/staff/{id}", Summary: "Update a staff member (admin)", RequestRef: "Staff", ResponseRef: "Staff", Status: 200},
			{Method: "DELETE", Path: "/staff/{id}", Summary: "Retire a staff member (admin)", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "EducationDocument",
		Schema: map[string]interface{}{
			"id":           map[string]interface{}{"type": "string", "format": "uuid"},
			"symptom_code": map[string]interface{}{"type": "string"},
			"title":        map[string]interface{}{"type": "string"},
			"summary":      map[string]interface{}{"type": "string"},
			"status":       map[string]interface{}{"type": "string", "enum": []string{"draft", "approved"}},
			"is_active":    map[string]interface{}{"type": "boolean"},
			"version":      map[string]interface{}{"type": "integer"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/education/documents", Summary: "List education documents", ResponseRef: "EducationDocument", Status: 200, Paginated: true,
				Query: []docs.QueryParam{{Name: "symptom_code", Type: "string", Description: "filter by symptom"}}},
			{Method: "POST", Path: "/education/documents", Summary: "Create a document draft", RequestRef: "EducationDocument", ResponseRef: "EducationDocument", Status: 201},
			{Method: "GET", Path: "/education/documents/{id}", Summary: "Get a document", ResponseRef: "EducationDocument", Status: 200},
			{Method: "PATCH", Path: "/education/documents/{id}", Summary: "Update a draft or toggle visibility", RequestRef: "EducationDocument", ResponseRef: "EducationDocument", Status: 200},
			{Method: "POST", Path: "/education/documents/{id}/approve", Summary: "Approve a document", ResponseRef: "EducationDocument", Status: 200},
			{Method: "POST", Path: "/education/documents/{id}/upload", Summary: "Presign a PDF upload", Status: 200},
		},
	})

	r.Add(docs.Resource{
		Name: "Symptom",
		Schema: map[string]interface{}{
			"id":           map[string]interface{}{"type": "string", "format": "uuid"},
			"code":         map[string]interface{}{"type": "string"},
			"display_name": map[string]interface{}{"type": "string"},
			"description":  map[string]interface{}{"type": "string"},
			"is_active":    map[string]interface{}{"type": "boolean"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/education/symptoms", Summary: "List the symptom catalog", ResponseRef: "Symptom", Status: 200, Paginated: true},
			{Method: "POST", Path: "/education/symptoms", Summary: "Add a symptom", RequestRef: "Symptom", ResponseRef: "Symptom", Status: 201},
			{Method: "GET", Path: "/education/symptoms/{id}", Summary: "Get a symptom", ResponseRef: "Symptom", Status: 200},
			{Method: "PATCH", Path: "/education/symptoms/{id}", Summary: "Update a symptom", RequestRef: "Symptom", ResponseRef: "Symptom", Status: 200},
			{Method: "DELETE", Path: "/education/symptoms/{id}", Summary: "Deactivate a symptom", Status: 204},
		},
	})

	r.Add(docs.Resource{
		Name: "Patient",
		Schema: map[string]interface{}{
			"id":          map[string]interface{}{"type": "string", "format": "uuid"},
			"first_name":  map[string]interface{}{"type": "string"},
			"last_name":   map[string]interface{}{"type": "string"},
			"email":       map[string]interface{}{"type": "string"},
			"cancer_type": map[string]interface{}{"type": "string"},
		},
		Operations: []docs.Operation{
			{Method: "GET", Path: "/patients", Summary: "List associated patients", ResponseRef: "Patient", Status: 200, Paginated: true},
			{Method: "GET", Path: "/patients/{id}", Summary: "Get an associated patient", ResponseRef: "Patient", Status: 200},
			{Method: "DELETE", Path: "/patients/{id}", Summary: "Retire a patient (admin)", Status: 204},
			{Method: "GET", Path: "/patients/{id}/questions", Summary: "List the patient's shared questions", Status: 200, Paginated: true},
			{Method: "PATCH", Path: "/patients/{id}/questions/{qid}/answer", Summary: "Mark a shared question answered", Status: 200},
			{Method: "GET", Path: "/patients/{id}/diary", Summary: "List the patient's diary entries", Status: 200, Paginated: true},
			{Method: "GET", Path: "/patients/{id}/chemo", Summary: "List the patient's chemo dates", Status: 200, Paginated: true},
		},
	})

	r.Add(docs.Resource{
		Name: "Dashboard",
		Operations: []docs.Operation{
			{Method: "GET", Path: "/dashboard/summary", Summary: "Panel summary counters", Status: 200},
			{Method: "GET", Path: "/dashboard/patients", Summary: "Per-patient rollups", Status: 200, Paginated: true},
			{Method: "GET", Path: "/dashboard/export", Summary: "Export the panel as an xlsx workbook", Status: 200},
		},
	})

	r.Add(docs.Resource{
		Name: "FaxRecord",
		Schema: map[string]interface{}{
			"id":          map[string]interface{}{"type": "string", "format": "uuid"},
			"direction":   map[string]interface{}{"type": "string", "enum": []string{"inbound", "outbound"}},
			"to_number":   map[string]interface{}{"type": "string"},
			"from_number": map[string]interface{}{"type": "string"},
			"status":      map[string]interface{}{"type": "string"},
		},
		Operations: []docs.Operation{
			{Method: "POST", Path: "/fax", Summary: "Send an outbound fax", RequestRef: "FaxRecord", ResponseRef: "FaxRecord", Status: 201},
			{Method: "GET", Path: "/fax", Summary: "List fax records", ResponseRef: "FaxRecord", Status: 200, Paginated: true,
				Query: []docs.QueryParam{{Name: "direction", Type: "string", Description: "inbound or outbound"}}},
			{Method: "GET", Path: "/fax/{id}", Summary: "Get a fax record", ResponseRef: "FaxRecord", Status: 200},
		},
	})

	return r
}
