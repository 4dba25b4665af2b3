package pipeline

import (
	"github.com/hashicorp/go-hclog"

	"scangate/internal/ci"
	"scangate/internal/git"
	"scangate/internal/notify"
	"scangate/internal/vcs"
	"scangate/pkg/shared/artifacts"
	"scangate/pkg/shared/config"
	"scangate/pkg/shared/httpclient"
)

// CollaboratorOptions carries the command-line overrides for the optional
// output paths. Empty fields are hydrated from the CI environment and, for
// the repository coordinates, from local git metadata.
type CollaboratorOptions struct {
	VCSProvider   string
	Namespace     string
	Repository    string
	PullRequestID string
	SourceFolder  string
	PostPRComment bool
}

// BuildDeps assembles the pipeline collaborators from config, environment,
// and overrides. Assembly never fails: an output path that cannot be set up
// is left nil (posting, notification) or absent (remote stores) and the
// pipeline degrades accordingly.
func BuildDeps(cfg *config.Config, logger hclog.Logger, opts CollaboratorOptions) Deps {
	deps := Deps{
		Logger: logger,
		Stores: buildStores(cfg, logger),
	}

	if notifier := notify.NewSlackNotifier(cfg, logger); notifier != nil {
		deps.Notifier = notifier
	}

	if !opts.PostPRComment {
		return deps
	}

	resolution := resolveTarget(cfg, logger, opts)
	target, err := vcs.TargetFromResolution(resolution)
	if err != nil {
		logger.Warn("pr comment target could not be resolved; posting will be skipped", "error", err)
		return deps
	}

	poster, err := vcs.NewPoster(resolution.Kind, resolution.Domain, cfg, logger)
	if err != nil {
		logger.Warn("pr comment poster unavailable; posting will be skipped", "error", err)
		return deps
	}

	deps.Poster = poster
	deps.Target = target
	return deps
}

// buildStores returns the local store plus any configured remote stores.
func buildStores(cfg *config.Config, logger hclog.Logger) []artifacts.Store {
	stores := []artifacts.Store{
		artifacts.NewLocalStore(config.GetReportsFolder(cfg), logger),
	}

	if cfg.Artifacts.S3.Bucket != "" {
		s3Store, err := artifacts.NewS3Store(cfg.Artifacts.S3, logger)
		if err != nil {
			logger.Warn("s3 artifact store unavailable", "error", err)
		} else {
			stores = append(stores, s3Store)
		}
	}

	if serverURL := cfg.Artifacts.Server.URL; serverURL != "" {
		client := httpclient.InitializeRestyClient(logger, cfg)
		stores = append(stores, artifacts.NewServerStore(client, serverURL, logger))
	}

	return stores
}

// resolveTarget merges CI environment detection, local git metadata, and
// explicit flag overrides into one resolution. Flags always win.
func resolveTarget(cfg *config.Config, logger hclog.Logger, opts CollaboratorOptions) ci.Resolution {
	resolution, err := ci.ResolveFromEnvironment(logger, opts.VCSProvider)
	if err != nil {
		logger.Debug("ci environment resolution failed", "error", err)
	}

	if resolution.Namespace == "" || resolution.Repository == "" {
		if md, mdErr := git.CollectRepositoryMetadata(logger, opts.SourceFolder); mdErr == nil {
			if resolution.Namespace == "" {
				resolution.Namespace = md.Namespace
			}
			if resolution.Repository == "" {
				resolution.Repository = md.Repository
			}
			if resolution.Domain == "" {
				resolution.Domain = md.Host
			}
		} else {
			logger.Debug("git metadata fallback failed", "error", mdErr)
		}
	}

	if opts.Namespace != "" {
		resolution.Namespace = opts.Namespace
	}
	if opts.Repository != "" {
		resolution.Repository = opts.Repository
	}
	if opts.PullRequestID != "" {
		resolution.PullRequest = opts.PullRequestID
	}
	if resolution.Kind == ci.CIUnknown && opts.VCSProvider != "" {
		if kind, parseErr := ci.ParseCIKind(opts.VCSProvider); parseErr == nil {
			resolution.Kind = kind
		}
	}

	return resolution
}
