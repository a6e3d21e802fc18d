package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DevelopBranch     string `mapstructure:"develop_branch"`
	MainBranch        string `mapstructure:"main_branch"`
	VersionFile       string `mapstructure:"version_file"`
	VersionLinePrefix string `mapstructure:"version_line_prefix"`
	SnapshotSuffix    string `mapstructure:"snapshot_suffix"`
	TagPrefix         string `mapstructure:"tag_prefix"`
	PublishCommand    string `mapstructure:"publish_command"`
	Remote            string `mapstructure:"remote"`
	GithubToken       string `mapstructure:"github_token"`
	GithubOwner       string `mapstructure:"github_owner"`
	GithubRepo        string `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		DevelopBranch:     "develop",
		MainBranch:        "main",
		VersionFile:       "buildSrc/src/main/kotlin/ProjectVersions.kt",
		VersionLinePrefix: "const val thisLibrary = ",
		SnapshotSuffix:    "-SNAPSHOT",
		TagPrefix:         "v",
		PublishCommand:    "./gradlew clean publish",
		Remote:            "origin",
		GithubOwner:       "NikoAndroid",
		GithubRepo:        "Splitties",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := ValidateBranchName(c.DevelopBranch); err != nil {
		return fmt.Errorf("invalid develop_branch: %w", err)
	}
	if err := ValidateBranchName(c.MainBranch); err != nil {
		return fmt.Errorf("invalid main_branch: %w", err)
	}
	if c.DevelopBranch == c.MainBranch {
		return fmt.Errorf("develop_branch and main_branch must differ, both are %q", c.MainBranch)
	}
	if c.VersionFile == "" {
		return fmt.Errorf("version_file cannot be empty")
	}
	if strings.Contains(c.VersionFile, "..") {
		return fmt.Errorf("version_file contains invalid path traversal")
	}
	if strings.TrimSpace(c.VersionLinePrefix) == "" {
		return fmt.Errorf("version_line_prefix cannot be empty")
	}
	if c.SnapshotSuffix == "" {
		return fmt.Errorf("snapshot_suffix cannot be empty")
	}
	if strings.TrimSpace(c.PublishCommand) == "" {
		return fmt.Errorf("publish_command cannot be empty")
	}
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	// GitHub token is optional, PR automation is skipped without it
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
		if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

var branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// ValidateBranchName validates a git branch name.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain consecutive dots: %s", branch)
	}
	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("branch name cannot end with .lock: %s", branch)
	}
	if !branchNameRegex.MatchString(branch) {
		return fmt.Errorf("invalid branch name format: %s", branch)
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".splitties-release")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Configure environment variables
	viper.SetEnvPrefix("SPLITTIES_RELEASE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Explicitly bind environment variables
	// BindEnv allows multiple env vars - it will check them in order
	if err := viper.BindEnv("github_token", "GITHUB_TOKEN", "SPLITTIES_RELEASE_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := viper.BindEnv("github_owner", "GITHUB_OWNER", "SPLITTIES_RELEASE_GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := viper.BindEnv("github_repo", "GITHUB_REPO", "SPLITTIES_RELEASE_GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	if err := viper.BindEnv("publish_command", "PUBLISH_COMMAND", "SPLITTIES_RELEASE_PUBLISH_COMMAND"); err != nil {
		return nil, fmt.Errorf("failed to bind publish_command env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	viper.SetDefault("develop_branch", defaults.DevelopBranch)
	viper.SetDefault("main_branch", defaults.MainBranch)
	viper.SetDefault("version_file", defaults.VersionFile)
	viper.SetDefault("version_line_prefix", defaults.VersionLinePrefix)
	viper.SetDefault("snapshot_suffix", defaults.SnapshotSuffix)
	viper.SetDefault("tag_prefix", defaults.TagPrefix)
	viper.SetDefault("publish_command", defaults.PublishCommand)
	viper.SetDefault("remote", defaults.Remote)
	viper.SetDefault("github_owner", defaults.GithubOwner)
	viper.SetDefault("github_repo", defaults.GithubRepo)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
