package graphql

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/security"
)

// Handler serves the admin GraphQL endpoint
type Handler struct {
	schema      *Schema
	config      *config.GraphQLConfig
	jwtProvider *security.JWTProvider
	logger      *zap.Logger
}

// NewHandler creates a new GraphQL handler
func NewHandler(
	schema *Schema,
	config *config.GraphQLConfig,
	jwtProvider *security.JWTProvider,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		schema:      schema,
		config:      config,
		jwtProvider: jwtProvider,
		logger:      logger,
	}
}

// Request is a GraphQL request as sent in a POST body
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// RegisterRoutes registers GraphQL routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST(h.config.Path, h.handleGraphQL)
	router.GET(h.config.Path, h.handleGraphQL)

	if h.config.EnablePlayground {
		router.GET(h.config.PlaygroundPath, h.handlePlayground)
	}
}

func (h *Handler) handleGraphQL(c *gin.Context) {
	req, msg := parseRequest(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": msg}}})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema.Schema(),
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        h.withClaims(c),
	})
	if result.HasErrors() {
		h.logger.Debug("GraphQL query returned errors",
			zap.String("operation", req.OperationName),
			zap.Any("errors", result.Errors),
		)
	}

	c.JSON(http.StatusOK, result)
}

// parseRequest reads a POST JSON body or GET query parameters. A non-empty
// message means the request is malformed.
func parseRequest(c *gin.Context) (Request, string) {
	var req Request
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, "Invalid request body"
		}
	} else {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, "Invalid variables"
			}
		}
	}
	if req.Query == "" {
		return req, "Query is required"
	}
	return req, ""
}

// withClaims attaches the caller's claims when a valid access token is
// present. Resolvers decide what an anonymous caller may see.
func (h *Handler) withClaims(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	token, ok := security.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return ctx
	}
	claims, err := h.jwtProvider.ValidateAccessToken(token)
	if err != nil {
		return ctx
	}
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

var playgroundPage = template.Must(template.New("playground").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>FitHub Admin GraphQL Playground</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
  <script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>
    window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), {
        endpoint: {{.Endpoint}},
        settings: {'request.credentials': 'include'},
        tabs: [{endpoint: {{.Endpoint}}, query: {{.Query}}}]
      })
    })
  </script>
</body>
</html>`))

const playgroundQuery = `# Send an admin access token as the Authorization header.
query {
  pendingApplications { id email appliedAt }
  applicationCounts { pending approved rejected }
}
`

func (h *Handler) handlePlayground(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := playgroundPage.Execute(c.Writer, struct{ Endpoint, Query string }{h.config.Path, playgroundQuery})
	if err != nil {
		h.logger.Error("Failed to render GraphQL playground", zap.Error(err))
	}
}
