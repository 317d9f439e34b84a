package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"landguard-hq/landguard/pkg/rules"
)

// GitConfig configures a Git-backed policy source.
type GitConfig struct {
	// Repository is the clone URL.
	Repository string `yaml:"repository" json:"repository"`

	// Branch to track. Defaults to "main".
	Branch string `yaml:"branch" json:"branch"`

	// Path is the thresholds file path relative to the repository root.
	Path string `yaml:"path" json:"path"`

	// LocalPath is where the repository is cloned. Defaults to a
	// directory under the system temp dir.
	LocalPath string `yaml:"local_path" json:"local_path"`

	// PollInterval controls how often the remote is checked for new
	// commits. Defaults to 5 minutes.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	// Depth limits clone history. Zero clones the full history.
	Depth int `yaml:"depth" json:"depth"`

	// Timeout bounds individual clone and pull operations.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultGitConfig returns the default Git source configuration.
func DefaultGitConfig() GitConfig {
	return GitConfig{
		Branch:       "main",
		Path:         "thresholds.yaml",
		LocalPath:    filepath.Join(os.TempDir(), "landguard-policy"),
		PollInterval: 5 * time.Minute,
		Depth:        1,
		Timeout:      30 * time.Second,
	}
}

// Validate checks the Git source configuration.
func (c GitConfig) Validate() error {
	if c.Repository == "" {
		return NewSourceError("git", "config", "repository URL cannot be empty", nil)
	}
	if c.Branch == "" {
		return NewSourceError("git", "config", "branch cannot be empty", nil)
	}
	if c.Path == "" {
		return NewSourceError("git", "config", "path cannot be empty", nil)
	}
	if c.PollInterval <= 0 {
		return NewSourceError("git", "config", "poll interval must be positive", nil)
	}
	return nil
}

// CommitInfo describes the commit a policy snapshot was loaded from.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Branch    string    `json:"branch"`
}

// GitSource loads thresholds from a file tracked in a Git repository and
// polls the remote for new commits. The commit log doubles as the audit
// trail for threshold changes.
type GitSource struct {
	config GitConfig
	logger *slog.Logger

	mu   sync.Mutex
	repo *gogit.Repository
}

// NewGitSource creates a Git-backed policy source.
func NewGitSource(cfg GitConfig, logger *slog.Logger) (*GitSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GitSource{
		config: cfg,
		logger: logger.With("component", "policy.git", "repository", cfg.Repository),
	}, nil
}

// Load ensures the repository is cloned and up to date, then parses the
// tracked thresholds file.
func (s *GitSource) Load(ctx context.Context) (rules.Thresholds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx); err != nil {
		return rules.Thresholds{}, err
	}
	if _, _, err := s.pull(ctx); err != nil {
		return rules.Thresholds{}, err
	}
	return loadThresholdsFile(filepath.Join(s.config.LocalPath, s.config.Path))
}

// Watch polls the remote at the configured interval and emits an Event
// when HEAD advances.
func (s *GitSource) Watch(ctx context.Context) (<-chan Event, error) {
	events := make(chan Event, 1)

	go func() {
		defer close(events)

		ticker := time.NewTicker(s.config.PollInterval)
		defer ticker.Stop()

		s.logger.Info("polling policy repository",
			"branch", s.config.Branch,
			"interval", s.config.PollInterval.String(),
		)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				changed, sha, err := s.poll(ctx)
				if err != nil {
					s.logger.Error("policy repository poll failed", "error", err)
					continue
				}
				if !changed {
					continue
				}
				s.logger.Info("policy repository changed", "commit", sha)
				select {
				case events <- Event{
					Source:    s.Name(),
					Detail:    sha,
					Timestamp: time.Now(),
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// Name implements Source.
func (s *GitSource) Name() string { return "git" }

// Head returns metadata for the commit currently checked out.
func (s *GitSource) Head(ctx context.Context) (*CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.headInfo()
}

// poll pulls the remote and reports whether HEAD moved.
func (s *GitSource) poll(ctx context.Context) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx); err != nil {
		return false, "", err
	}
	return s.pull(ctx)
}

// ensure opens the local clone, cloning first if it does not exist yet.
// Callers must hold s.mu.
func (s *GitSource) ensure(ctx context.Context) error {
	if s.repo != nil {
		return nil
	}

	if _, err := os.Stat(filepath.Join(s.config.LocalPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(s.config.LocalPath)
		if err != nil {
			return NewSourceError("git", "open", "failed to open existing clone", err)
		}
		s.repo = repo
		return nil
	}

	if err := os.MkdirAll(s.config.LocalPath, 0o755); err != nil {
		return NewSourceError("git", "clone", "failed to create clone directory", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, s.config.LocalPath, false, &gogit.CloneOptions{
		URL:           s.config.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(s.config.Branch),
		SingleBranch:  true,
		Depth:         s.config.Depth,
	})
	if err != nil {
		return NewSourceError("git", "clone", fmt.Sprintf("failed to clone %q", s.config.Repository), err)
	}

	s.logger.Info("policy repository cloned", "local_path", s.config.LocalPath)
	s.repo = repo
	return nil
}

// pull fast-forwards the checkout and reports whether HEAD moved.
// Callers must hold s.mu.
func (s *GitSource) pull(ctx context.Context) (bool, string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return false, "", NewSourceError("git", "pull", "failed to read HEAD", err)
	}
	before := ref.Hash()

	worktree, err := s.repo.Worktree()
	if err != nil {
		return false, "", NewSourceError("git", "pull", "failed to get worktree", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName: "origin",
		Force:      false,
	})
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		return false, "", NewSourceError("git", "pull", "failed to pull", err)
	}

	ref, err = s.repo.Head()
	if err != nil {
		return false, "", NewSourceError("git", "pull", "failed to read HEAD after pull", err)
	}
	after := ref.Hash()

	return before != after, after.String(), nil
}

// headInfo reads commit metadata for the current HEAD. Callers must hold s.mu.
func (s *GitSource) headInfo() (*CommitInfo, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return nil, NewSourceError("git", "head", "failed to read HEAD", err)
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, NewSourceError("git", "head", "failed to read commit", err)
	}
	return &CommitInfo{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Timestamp: commit.Author.When,
		Message:   commit.Message,
		Branch:    s.config.Branch,
	}, nil
}
