package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// queryParams collects typed query parameters and remembers the first
// malformed one, so handlers check for errors once.
type queryParams struct {
	c   *gin.Context
	err error
}

func newQueryParams(c *gin.Context) *queryParams {
	return &queryParams{c: c}
}

// uuid parses an optional UUID query parameter
func (q *queryParams) uuid(param string) *uuid.UUID {
	value := strings.TrimSpace(q.c.Query(param))
	if value == "" {
		return nil
	}

	parsed, err := uuid.Parse(value)
	if err != nil {
		q.fail(fmt.Errorf("invalid %s: %q is not a UUID", param, value))
		return nil
	}
	return &parsed
}

// queryEnum parses an optional query parameter that must be one of candidates
func queryEnum[T ~string](q *queryParams, param string, candidates []T) T {
	var zero T
	value := strings.TrimSpace(q.c.Query(param))
	if value == "" {
		return zero
	}
	for _, cand := range candidates {
		if string(cand) == value {
			return cand
		}
	}
	q.fail(fmt.Errorf("invalid %s: %q", param, value))
	return zero
}

// queryEnumList parses a comma-separated list of enum values
func queryEnumList[T ~string](q *queryParams, param string, candidates []T) []T {
	var out []T
	for _, item := range getStringArrayParam(q.c, param) {
		found := false
		for _, cand := range candidates {
			if string(cand) == item {
				out = append(out, cand)
				found = true
				break
			}
		}
		if !found {
			q.fail(fmt.Errorf("invalid %s: %q", param, item))
		}
	}
	return out
}

func (q *queryParams) bool(param string) bool {
	return q.c.Query(param) == "true"
}

func (q *queryParams) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// getStringArrayParam safely parses a comma-separated string array parameter
func getStringArrayParam(c *gin.Context, param string) []string {
	value := c.Query(param)
	if value == "" {
		return []string{}
	}

	// Split by comma and clean up
	result := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}

	return result
}
