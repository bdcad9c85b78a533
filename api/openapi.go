package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/service"
)

// OpenAPIPath is where the OpenAPI description of the REST API is served
const OpenAPIPath = "/swagger/v1/swagger.json"

type openAPIParameter struct {
	Name        string             `json:"name"`
	In          string             `json:"in"`
	Required    bool               `json:"required"`
	Description string             `json:"description,omitempty"`
	Schema      *jsonschema.Schema `json:"schema"`
}

type openAPIMediaType struct {
	Schema *jsonschema.Schema `json:"schema"`
}

type openAPIBody struct {
	Description string                      `json:"description,omitempty"`
	Required    bool                        `json:"required,omitempty"`
	Content     map[string]openAPIMediaType `json:"content,omitempty"`
}

type openAPIOperation struct {
	Summary     string                 `json:"summary"`
	OperationID string                 `json:"operationId"`
	Tags        []string               `json:"tags"`
	Parameters  []openAPIParameter     `json:"parameters,omitempty"`
	RequestBody *openAPIBody           `json:"requestBody,omitempty"`
	Responses   map[string]openAPIBody `json:"responses"`
}

type openAPIDocument struct {
	OpenAPI string `json:"openapi"`
	Info    struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths map[string]map[string]*openAPIOperation `json:"paths"`
}

// schemaFor reflects a self-contained JSON schema from a Go value
func schemaFor(v interface{}) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	return s
}

func jsonBody(description string, schema *jsonschema.Schema) openAPIBody {
	return openAPIBody{
		Description: description,
		Content:     map[string]openAPIMediaType{"application/json": {Schema: schema}},
	}
}

func pathParam(name, description string, schema *jsonschema.Schema) openAPIParameter {
	return openAPIParameter{Name: name, In: "path", Required: true, Description: description, Schema: schema}
}

func buildOpenAPIDocument() *openAPIDocument {
	var (
		board      = schemaFor(&service.BoardInfo{})
		boardList  = schemaFor(&boardListResponse{})
		pattern    = schemaFor(&engine.Pattern{})
		patterns   = schemaFor([]*service.PatternInfo{})
		errorBody  = jsonBody("Error", schemaFor(&errorResponse{}))
		idParam    = pathParam("id", "Board id", &jsonschema.Schema{Type: "string"})
		countParam = pathParam("count", "Number of generations, greater than 0", &jsonschema.Schema{Type: "integer"})
	)

	boardOK := jsonBody("Board", board)
	advance := func(summary, id string, params ...openAPIParameter) *openAPIOperation {
		return &openAPIOperation{
			Summary:     summary,
			OperationID: id,
			Tags:        []string{"simulation"},
			Parameters:  append([]openAPIParameter{idParam}, params...),
			Responses: map[string]openAPIBody{
				"200": boardOK,
				"400": errorBody,
				"404": errorBody,
			},
		}
	}

	final := advance("Advance until a state repeats", "finalState")
	final.Responses["422"] = errorBody

	doc := &openAPIDocument{OpenAPI: "3.1.0"}
	doc.Info.Title = "Game of Life API"
	doc.Info.Version = "v1"
	doc.Paths = map[string]map[string]*openAPIOperation{
		"/api/boards": {
			"post": {
				Summary:     "Create a board from a grid or a named pattern",
				OperationID: "createBoard",
				Tags:        []string{"boards"},
				RequestBody: func() *openAPIBody {
					b := jsonBody("Either grid or pattern", schemaFor(&createBoardRequest{}))
					b.Required = true
					return &b
				}(),
				Responses: map[string]openAPIBody{
					"201": jsonBody("Created board", board),
					"400": errorBody,
					"404": errorBody,
				},
			},
			"get": {
				Summary:     "List boards",
				OperationID: "listBoards",
				Tags:        []string{"boards"},
				Responses:   map[string]openAPIBody{"200": jsonBody("Boards", boardList)},
			},
		},
		"/api/boards/{id}": {
			"get": {
				Summary:     "Get the current state of a board",
				OperationID: "getBoard",
				Tags:        []string{"boards"},
				Parameters:  []openAPIParameter{idParam},
				Responses:   map[string]openAPIBody{"200": boardOK, "404": errorBody},
			},
		},
		"/api/boards/{id}/next": {
			"get": advance("Advance one generation", "nextState"),
		},
		"/api/boards/{id}/generations/{count}": {
			"get": advance("Advance count generations", "stateAfterGenerations", countParam),
		},
		"/api/boards/{id}/final": {
			"get": final,
		},
		"/api/patterns": {
			"get": {
				Summary:     "List available patterns",
				OperationID: "listPatterns",
				Tags:        []string{"patterns"},
				Responses:   map[string]openAPIBody{"200": jsonBody("Patterns", patterns)},
			},
			"post": {
				Summary:     "Save a pattern",
				OperationID: "savePattern",
				Tags:        []string{"patterns"},
				RequestBody: func() *openAPIBody {
					b := jsonBody("Pattern", schemaFor(&savePatternRequest{}))
					b.Required = true
					return &b
				}(),
				Responses: map[string]openAPIBody{
					"201": jsonBody("Saved", schemaFor(&savePatternResponse{})),
					"400": errorBody,
					"409": errorBody,
				},
			},
		},
		"/api/patterns/{name}": {
			"get": {
				Summary:     "Get a pattern",
				OperationID: "getPattern",
				Tags:        []string{"patterns"},
				Parameters:  []openAPIParameter{pathParam("name", "Pattern id", &jsonschema.Schema{Type: "string"})},
				Responses:   map[string]openAPIBody{"200": jsonBody("Pattern", pattern), "404": errorBody},
			},
		},
		"/api/patterns/reload": {
			"post": {
				Summary:     "Re-read pattern files on next use",
				OperationID: "reloadPatterns",
				Tags:        []string{"patterns"},
				Responses:   map[string]openAPIBody{"204": {Description: "Cache cleared"}, "404": errorBody},
			},
		},
		"/health": {
			"get": {
				Summary:     "Liveness check",
				OperationID: "health",
				Tags:        []string{"health"},
				Responses:   map[string]openAPIBody{"200": jsonBody("Healthy", schemaFor(&healthResponse{}))},
			},
		},
	}
	return doc
}

var openAPISpec = sync.OnceValues(func() ([]byte, error) {
	return json.MarshalIndent(buildOpenAPIDocument(), "", "  ")
})

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := openAPISpec()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build OpenAPI document")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
  <title>Game of Life API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>SwaggerUIBundle({url: "` + OpenAPIPath + `", dom_id: "#swagger-ui"});</script>
</body>
</html>
`

func (s *Server) handleSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(swaggerUIPage))
}
