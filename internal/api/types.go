package api

import (
	"encoding/json"

	"github.com/agripath/agripath/internal/content"
)

// HealthStatus is the status reported by /health.
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Degraded  HealthStatus = "degraded"
	Unhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status HealthStatus `json:"status"`
}

// Error is the JSON body the feed returns with non-2xx statuses.
type Error struct {
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	RequestID *string `json:"request_id,omitempty"`
}

// graphQLRequest is the POST body of /graphql.
type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the envelope of every /graphql reply.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type catalogData struct {
	Catalog *content.Catalog `json:"catalog"`
}

type careerData struct {
	Career *content.Career `json:"career"`
}

const catalogQuery = `query Catalog($locale: String) {
  catalog(locale: $locale) {
    version
    banners { id image caption }
    careers {
      id title body illustration detail tags
      course { name price_paise: pricePaise duration_weeks: durationWeeks }
    }
  }
}`

const careerQuery = `query Career($id: ID!, $locale: String) {
  career(id: $id, locale: $locale) {
    id title body illustration detail tags
    course { name price_paise: pricePaise duration_weeks: durationWeeks }
  }
}`
