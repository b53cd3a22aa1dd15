// Package docs generates an OpenAPI 3.0 document and a minimal HTML index
// from the resource registry each binary builds at startup.
package docs

import (
	"sort"
	"strings"
)

// Operation describes one HTTP operation on a registered resource.
type Operation struct {
	Method      string
	Path        string // relative to /api/v1, path params in {braces}
	Summary     string
	RequestRef  string // schema name for the request body, empty for none
	ResponseRef string // schema name for the success response, empty for Page or plain status
	Status      int
	Paginated   bool // response is the standard page envelope over ResponseRef
	Query       []QueryParam
}

// QueryParam describes a query string parameter on an operation.
type QueryParam struct {
	Name        string
	Type        string // OpenAPI primitive: string, integer, boolean, number
	Description string
}

// Resource groups the operations and schema of one API surface.
type Resource struct {
	Name       string
	Schema     map[string]interface{} // OpenAPI properties of the resource object
	Operations []Operation
}

// Registry collects the resources of one binary.
type Registry struct {
	title     string
	version   string
	baseURL   string
	resources []Resource
}

func NewRegistry(title, version, baseURL string) *Registry {
	return &Registry{title: title, version: version, baseURL: baseURL}
}

func (r *Registry) Add(res Resource) {
	r.resources = append(r.resources, res)
}

// Spec produces the OpenAPI 3.0 document as a map.
func (r *Registry) Spec() map[string]interface{} {
	paths := make(map[string]interface{})
	schemas := envelopeSchemas()

	for _, res := range r.resources {
		if res.Schema != nil {
			schemas[res.Name] = map[string]interface{}{
				"type":       "object",
				"properties": res.Schema,
			}
		}
		for _, op := range res.Operations {
			full := "/api/v1" + op.Path
			item, _ := paths[full].(map[string]interface{})
			if item == nil {
				item = make(map[string]interface{})
				paths[full] = item
			}
			item[strings.ToLower(op.Method)] = buildOperation(res.Name, op)
		}
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":   r.title,
			"version": r.version,
		},
		"servers": []map[string]string{
			{"url": r.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": schemas,
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []string{}},
		},
	}
}

// resourceNames returns the registered resource names in sorted order.
func (r *Registry) resourceNames() []string {
	names := make([]string, 0, len(r.resources))
	for _, res := range r.resources {
		names = append(names, res.Name)
	}
	sort.Strings(names)
	return names
}

func buildOperation(resName string, op Operation) map[string]interface{} {
	out := map[string]interface{}{
		"summary": op.Summary,
		"tags":    []string{resName},
	}

	params := pathParameters(op.Path)
	for _, q := range op.Query {
		params = append(params, map[string]interface{}{
			"name":        q.Name,
			"in":          "query",
			"schema":      map[string]interface{}{"type": q.Type},
			"description": q.Description,
		})
	}
	if op.Paginated {
		params = append(params,
			map[string]interface{}{
				"name":        "limit",
				"in":          "query",
				"schema":      map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 100},
				"description": "Page size",
			},
			map[string]interface{}{
				"name":        "offset",
				"in":          "query",
				"schema":      map[string]interface{}{"type": "integer", "minimum": 0},
				"description": "Starting index",
			},
		)
	}
	if len(params) > 0 {
		out["parameters"] = params
	}

	if op.RequestRef != "" {
		out["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": schemaRef(op.RequestRef),
				},
			},
		}
	}

	out["responses"] = buildResponses(op)
	return out
}

func buildResponses(op Operation) map[string]interface{} {
	status := op.Status
	if status == 0 {
		status = 200
	}
	responses := map[string]interface{}{
		"default": jsonResponse("Error", schemaRef("Error")),
	}

	key := statusKey(status)
	switch {
	case status == 204:
		responses[key] = map[string]interface{}{"description": "No content"}
	case op.Paginated:
		responses[key] = jsonResponse("Page of results", pageSchema(op.ResponseRef))
	case op.ResponseRef != "":
		responses[key] = jsonResponse("Success", schemaRef(op.ResponseRef))
	default:
		responses[key] = map[string]interface{}{"description": "Success"}
	}
	return responses
}

func jsonResponse(description string, schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": schema,
			},
		},
	}
}

func schemaRef(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

// pageSchema inlines the page envelope with data typed to the given resource.
func pageSchema(itemRef string) map[string]interface{} {
	var items map[string]interface{}
	if itemRef != "" {
		items = schemaRef(itemRef)
	} else {
		items = map[string]interface{}{"type": "object"}
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"data":     map[string]interface{}{"type": "array", "items": items},
			"total":    map[string]interface{}{"type": "integer", "minimum": 0},
			"limit":    map[string]interface{}{"type": "integer"},
			"offset":   map[string]interface{}{"type": "integer"},
			"has_more": map[string]interface{}{"type": "boolean"},
		},
	}
}

// pathParameters extracts {param} segments into OpenAPI path parameters.
func pathParameters(path string) []map[string]interface{} {
	var params []map[string]interface{}
	for _, seg := range strings.Split(path, "/") {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := seg[1 : len(seg)-1]
		schema := map[string]interface{}{"type": "string"}
		if name == "id" || strings.HasSuffix(name, "_id") {
			schema["format"] = "uuid"
		}
		params = append(params, map[string]interface{}{
			"name":     name,
			"in":       "path",
			"required": true,
			"schema":   schema,
		})
	}
	return params
}

func statusKey(status int) string {
	switch status {
	case 200:
		return "200"
	case 201:
		return "201"
	case 202:
		return "202"
	case 204:
		return "204"
	default:
		return "200"
	}
}

// envelopeSchemas returns the schemas shared by every binary: the error
// envelope the fault handler writes and the presigned URL payload.
func envelopeSchemas() map[string]interface{} {
	return map[string]interface{}{
		"Error": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"error": map[string]interface{}{"type": "string"},
				"kind":  map[string]interface{}{"type": "string"},
			},
			"required": []string{"error"},
		},
		"PresignedURL": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"url":        map[string]interface{}{"type": "string", "format": "uri"},
				"expires_at": map[string]interface{}{"type": "string", "format": "date-time"},
			},
		},
	}
}
