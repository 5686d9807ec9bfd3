package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/gh-activity/internal/catalog"
	"github.com/naka-gawa/gh-activity/internal/config"
	"github.com/naka-gawa/gh-activity/internal/domain"
	"github.com/naka-gawa/gh-activity/internal/gateway"
	"github.com/naka-gawa/gh-activity/internal/usecase"
)

const inputDateLayout = "2006-01-02"

// app holds what every command needs once flags are parsed.
type app struct {
	logger     *log.Logger
	aggregator *usecase.Aggregator
	repos      []domain.RepoID
	rng        domain.DateRange
}

// orgLister expands organizations into "owner/name" repositories.
type orgLister interface {
	ReposFromOrgs(ctx context.Context, orgs []string) ([]string, error)
}

// inputCheck validates command input that can be judged without the API.
type inputCheck func(flags *pflag.FlagSet, rng domain.DateRange) error

// mustSetup builds the app or exits with the error.
func mustSetup(cmd *cobra.Command, check inputCheck) *app {
	a, err := setup(cmd, check)
	exitOnError("Failed to set up", err)
	return a
}

func setup(cmd *cobra.Command, check inputCheck) (*app, error) {
	flags := cmd.Flags()

	// Logs are discarded unless --verbose is given.
	verbose, _ := flags.GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}

	envFile, _ := flags.GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	configPath, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	githubGateway, err := gateway.NewGitHubGateway(gateway.CredentialsFromEnv(), gatewaySettings(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, logger, usecaseSettings(cfg))

	rng, repos, err := resolveInputs(cmd.Context(), flags, aggregator, check)
	if err != nil {
		return nil, err
	}
	logger.Printf("Selected %d repositories", len(repos))

	return &app{logger: logger, aggregator: aggregator, repos: repos, rng: rng}, nil
}

// resolveInputs parses the date flags and runs check before selecting
// repositories, so invalid input is reported before any API call.
func resolveInputs(ctx context.Context, flags *pflag.FlagSet, lister orgLister, check inputCheck) (domain.DateRange, []domain.RepoID, error) {
	sinceStr, _ := flags.GetString("since")
	untilStr, _ := flags.GetString("until")
	rng, err := parseRange(sinceStr, untilStr)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	if check != nil {
		if err := check(flags, rng); err != nil {
			return domain.DateRange{}, nil, err
		}
	}

	repoArgs, _ := flags.GetStringSlice("repos")
	orgs, _ := flags.GetStringSlice("orgs")
	catalogPath, _ := flags.GetString("catalog")
	repos, err := resolveRepos(ctx, lister, repoArgs, orgs, catalogPath)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	return rng, repos, nil
}

// resolveRepos merges explicit repositories, organization repositories and
// catalog repositories, each once and in that order.
func resolveRepos(ctx context.Context, lister orgLister, repoArgs, orgs []string, catalogPath string) ([]domain.RepoID, error) {
	all := append([]string{}, repoArgs...)
	if len(orgs) > 0 {
		orgRepos, err := lister.ReposFromOrgs(ctx, orgs)
		if err != nil {
			return nil, fmt.Errorf("failed to list organization repositories: %w", err)
		}
		all = append(all, orgRepos...)
	}
	if catalogPath != "" {
		c, err := catalog.Load(catalogPath)
		if err != nil {
			return nil, err
		}
		all = append(all, c.Repos()...)
	}

	seen := make(map[string]struct{}, len(all))
	unique := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	if len(unique) == 0 {
		return nil, domain.Validationf("select repositories", "no repositories specified")
	}
	return domain.ParseRepoIDs(unique)
}

// parseRange parses the --since and --until flags. Empty flags leave that end open.
func parseRange(sinceStr, untilStr string) (domain.DateRange, error) {
	var rng domain.DateRange
	var err error
	if sinceStr != "" {
		if rng.Since, err = time.Parse(inputDateLayout, sinceStr); err != nil {
			return domain.DateRange{}, domain.NewError(domain.KindValidation, "parse --since", err)
		}
	}
	if untilStr != "" {
		if rng.Until, err = time.Parse(inputDateLayout, untilStr); err != nil {
			return domain.DateRange{}, domain.NewError(domain.KindValidation, "parse --until", err)
		}
	}
	return rng, nil
}

func gatewaySettings(cfg *config.Config) gateway.Settings {
	return gateway.Settings{
		BaseURL:             cfg.API.BaseURL,
		GraphQLURL:          cfg.API.GraphQLURL,
		AuthMode:            cfg.API.AuthMode,
		PerPage:             cfg.API.PerPage,
		RateLimitFloor:      cfg.API.RateLimitFloor,
		RateLimitRetries:    cfg.API.RateLimitRetries,
		SecondarySleepLimit: cfg.API.SecondarySleepLimit,
		StatsRetries:        cfg.Contributors.StatsRetries,
		StatsRetryDelay:     cfg.Contributors.StatsRetryDelay,
	}
}

func usecaseSettings(cfg *config.Config) usecase.Settings {
	return usecase.Settings{
		MaxLinesOfWork:          cfg.Commits.MaxLinesOfWork,
		IgnoreFiles:             cfg.Commits.IgnoreFiles,
		CommitDetailConcurrency: cfg.Commits.DetailConcurrency,
		CommentBucketDivisor:    cfg.Comments.BucketDivisor,
	}
}

// exitOnError prints err to stderr and exits with status 1 when err is non-nil.
func exitOnError(msg string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
