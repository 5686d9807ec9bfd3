package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// repoInfoQuery fetches the popularity counters of one repository.
type repoInfoQuery struct {
	Repository struct {
		StargazerCount int
		ForkCount      int
		Watchers       struct {
			TotalCount int
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchRepoInfo returns stargazer, watcher and fork counts using the GraphQL API.
func (g *GitHubGateway) FetchRepoInfo(ctx context.Context, repo domain.RepoID) (*domain.RepoInfo, error) {
	g.logger.Printf("Calling graphql.repository with owner=%s name=%s", repo.Owner, repo.Name)
	variables := map[string]interface{}{
		"owner": githubv4.String(repo.Owner),
		"name":  githubv4.String(repo.Name),
	}
	var q repoInfoQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, domain.NewError(domain.KindTransport, "graphql.repository",
			fmt.Errorf("failed to execute GraphQL query for %s: %w", repo, err))
	}
	return &domain.RepoInfo{
		Stargazers: q.Repository.StargazerCount,
		Watchers:   q.Repository.Watchers.TotalCount,
		Forks:      q.Repository.ForkCount,
	}, nil
}
