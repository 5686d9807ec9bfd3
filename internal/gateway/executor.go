package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Endpoint describes one kind of REST request. Kind names the resource for
// logging and error reporting, Envelope names the field holding the result
// list when the endpoint wraps it (search endpoints use "items").
type Endpoint struct {
	Kind     string
	Method   string
	Path     string
	Query    url.Values
	Envelope string
}

// Page selects a page of a list endpoint. A zero Page sends no paging parameters.
type Page struct {
	Number  int
	PerPage int
}

// RawPage is the undecoded body of one response plus its paging and quota metadata.
type RawPage struct {
	Body    json.RawMessage
	Page    int
	PerPage int
	Rate    github.Rate
}

// Execute issues a single logical request. Before sending, it throttles on the
// quota reported by the previous response. A request rejected for primary
// quota is retried after the reset, up to RateLimitRetries times.
func (g *GitHubGateway) Execute(ctx context.Context, ep Endpoint, page Page) (*RawPage, error) {
	if err := g.throttle(ctx); err != nil {
		return nil, domain.NewError(domain.KindTransport, ep.Kind, err)
	}

	query := url.Values{}
	for k, v := range ep.Query {
		query[k] = append([]string(nil), v...)
	}
	if page.Number > 0 {
		query.Set("page", strconv.Itoa(page.Number))
	}
	if page.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(page.PerPage))
	}
	encoded := query.Encode()
	g.logger.Printf("Calling %s with %s", ep.Kind, encoded)

	u := ep.Path
	if encoded != "" {
		u += "?" + encoded
	}
	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := g.restClient.NewRequest(method, u, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindTransport, ep.Kind, err)
	}

	// Quota waits happen in throttle and in the retry below only.
	doCtx := ctx
	var body json.RawMessage
	var resp *github.Response
	for attempt := 0; ; attempt++ {
		body = nil
		resp, err = g.restClient.Do(doCtx, req, &body)
		if resp != nil {
			g.recordRate(resp.Rate)
		}
		if err == nil {
			break
		}
		var rateErr *github.RateLimitError
		if !errors.As(err, &rateErr) || attempt >= g.settings.RateLimitRetries {
			return nil, classify(ep.Kind, resp, err)
		}
		wait := rateErr.Rate.Reset.Time.Sub(g.now())
		if wait < 0 {
			wait = 0
		}
		g.logger.Printf("Rate limit exceeded calling %s, sleeping %s before retrying", ep.Kind, wait)
		if err := g.sleep(ctx, wait); err != nil {
			return nil, domain.NewError(domain.KindTransport, ep.Kind, err)
		}
	}

	raw := &RawPage{Body: body, Page: page.Number, PerPage: page.PerPage}
	if resp != nil {
		raw.Rate = resp.Rate
	}
	return raw, nil
}

func (g *GitHubGateway) recordRate(rate github.Rate) {
	if rate.Limit == 0 {
		return
	}
	g.mu.Lock()
	g.lastRate = rate
	g.mu.Unlock()
}

// throttle sleeps until the quota resets when the last response reported
// fewer than RateLimitFloor remaining requests.
func (g *GitHubGateway) throttle(ctx context.Context) error {
	g.mu.Lock()
	rate := g.lastRate
	g.mu.Unlock()

	if rate.Limit == 0 || rate.Remaining >= g.settings.RateLimitFloor {
		return nil
	}
	wait := rate.Reset.Time.Sub(g.now())
	if wait <= 0 {
		return nil
	}
	g.logger.Printf("Rate limit nearly exhausted (%d remaining), sleeping %s", rate.Remaining, wait)
	return g.sleep(ctx, wait)
}

// classify tags err by the status of the response that produced it, keeping
// the go-github error as the cause.
func classify(op string, resp *github.Response, err error) error {
	if resp != nil && resp.Response != nil {
		code := resp.StatusCode
		switch {
		case code == http.StatusUnauthorized:
			return domain.NewError(domain.KindAuth, op, err)
		case code >= 300 && code < 400:
			return domain.NewError(domain.KindRedirect, op, err)
		}
	}
	return domain.NewError(domain.KindTransport, op, err)
}
