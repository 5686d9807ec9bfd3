package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// searchWindowMessage is how the search API reports that results beyond the
// first thousand cannot be paged to.
const searchWindowMessage = "Only the first"

// Executor runs one logical request. *GitHubGateway is the production implementation.
type Executor interface {
	Execute(ctx context.Context, ep Endpoint, page Page) (*RawPage, error)
}

// FetchAll pages through ep from page 1 until a page shorter than perPage
// arrives. A full last page costs one extra request that comes back empty.
// When the search API refuses to page further, the records gathered so far are returned.
func FetchAll[T any](ctx context.Context, ex Executor, ep Endpoint, perPage int) ([]T, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	var results []T
	for page := 1; ; page++ {
		raw, err := ex.Execute(ctx, ep, Page{Number: page, PerPage: perPage})
		if err != nil {
			if isResultWindowLimit(err) {
				return results, nil
			}
			return nil, err
		}
		records, err := decodeRecords[T](ep, raw.Body)
		if err != nil {
			return nil, err
		}
		if len(records) != 0 {
			results = append(results, records...)
		}
		if len(records) < perPage {
			return results, nil
		}
	}
}

// FetchCount issues a single request and returns its total_count field.
func FetchCount(ctx context.Context, ex Executor, ep Endpoint) (int, error) {
	raw, err := ex.Execute(ctx, ep, Page{PerPage: 1})
	if err != nil {
		return 0, err
	}
	var payload struct {
		TotalCount *int `json:"total_count"`
	}
	if err := json.Unmarshal(raw.Body, &payload); err != nil {
		return 0, domain.NewError(domain.KindTransport, ep.Kind, fmt.Errorf("failed to decode count: %w", err))
	}
	if payload.TotalCount == nil {
		return 0, domain.NewError(domain.KindCountMissing, ep.Kind, errors.New("response has no total_count field"))
	}
	return *payload.TotalCount, nil
}

func decodeRecords[T any](ep Endpoint, body json.RawMessage) ([]T, error) {
	list, err := unwrap(body, ep.Envelope)
	if err != nil {
		return nil, domain.NewError(domain.KindTransport, ep.Kind, err)
	}
	if len(bytes.TrimSpace(list)) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(list, &records); err != nil {
		return nil, domain.NewError(domain.KindTransport, ep.Kind, fmt.Errorf("failed to decode page: %w", err))
	}
	return records, nil
}

// unwrap extracts the envelope field from body. A missing field is an empty page.
func unwrap(body json.RawMessage, envelope string) (json.RawMessage, error) {
	if envelope == "" || len(bytes.TrimSpace(body)) == 0 {
		return body, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode %q envelope: %w", envelope, err)
	}
	return fields[envelope], nil
}

func isResultWindowLimit(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) {
		return false
	}
	if strings.Contains(errResp.Message, searchWindowMessage) {
		return true
	}
	for _, e := range errResp.Errors {
		if strings.Contains(e.Message, searchWindowMessage) {
			return true
		}
	}
	return false
}
