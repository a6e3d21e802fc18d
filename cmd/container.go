package cmd

import (
	"os"

	"github.com/NikoAndroid/Splitties/internal/config"
	"github.com/NikoAndroid/Splitties/internal/orchestrator"
	"github.com/NikoAndroid/Splitties/internal/repository"
	"github.com/NikoAndroid/Splitties/internal/service"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg    *config.Config
	logger *zap.Logger

	fsRepo    repository.FileSystemRepository
	gitRepo   repository.GitRepository
	ghRepo    repository.GithubRepository
	gradleSvc service.GradleService
	promptSvc service.PromptService
	journal   repository.RunJournal
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	fsRepo := repository.NewOsFileSystem()
	runner := service.NewCommandRunner(logger)
	gitRepo, err := repository.NewGitRepository(".", runner, cfg.GithubToken)
	if err != nil {
		return nil, err
	}

	// The GitHub API client is optional. Without a token the workflow keeps
	// its manual pull-request gates.
	var ghRepo repository.GithubRepository
	if cfg.GithubToken != "" {
		ghRepo, err = repository.NewGithubRepository(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	} else {
		ghRepo = repository.NewGithubNoopRepository(cfg.GithubOwner, cfg.GithubRepo)
	}

	return &container{
		cfg:       cfg,
		logger:    logger,
		fsRepo:    fsRepo,
		gitRepo:   gitRepo,
		ghRepo:    ghRepo,
		gradleSvc: service.NewGradleService(runner, cfg.PublishCommand),
		promptSvc: service.NewPromptService(os.Stdin, os.Stdout),
		journal:   repository.NewJSONRunJournal(fsRepo, ".release-runs"),
	}, nil
}

func (c *container) newOrchestrator() *orchestrator.ReleaseOrchestrator {
	return orchestrator.NewReleaseOrchestrator(
		c.cfg,
		".",
		c.gitRepo,
		c.ghRepo,
		c.fsRepo,
		c.gradleSvc,
		c.promptSvc,
		c.journal,
		c.logger,
	)
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	orch := c.newOrchestrator()
	rootCmd.AddCommand(NewReleaseCmd(orch))
	rootCmd.AddCommand(NewCurrentVersionCmd(c))
	rootCmd.AddCommand(NewNextDevVersionCmd(orch))
	rootCmd.AddCommand(newVersionCmd())

	return nil
}
