package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/workspace"
)

// ErrNotCloned is returned by operations that need a local clone.
var ErrNotCloned = errors.New("repository not initialized, call Clone() first")

// Repository is a local clone of the configured source repository.
type Repository struct {
	config    config.SourceConfig
	files     config.FilesConfig
	localPath string
	ephemeral bool
	auth      AuthProvider
	logger    *slog.Logger

	mu   sync.RWMutex
	repo *gogit.Repository
}

// NewRepository creates a repository manager for cfg. When no local path
// is configured the clone goes into a fresh temporary directory that
// Close removes.
func NewRepository(cfg config.SourceConfig, files config.FilesConfig, logger *slog.Logger) (*Repository, error) {
	if cfg.Repository == "" {
		return nil, errors.New("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		cfg.Branch = config.DefaultSourceBranch
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultSourceTimeout
	}
	// Local clones are always full, as with the git command line.
	if isLocalPath(cfg.Repository) {
		cfg.Depth = 0
	}
	if len(files.Extensions) == 0 {
		files.Extensions = config.DefaultExtensions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	auth, err := NewAuthProvider(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	r := &Repository{
		config:    cfg,
		files:     files,
		localPath: cfg.LocalPath,
		auth:      auth,
		logger:    logger.With("component", "gitsource", "repository", cfg.Repository),
	}
	if r.localPath == "" {
		dir, err := os.MkdirTemp("", "masolint-source-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create clone directory: %w", err)
		}
		r.localPath = dir
		r.ephemeral = true
	}
	return r, nil
}

// Clone clones the repository, or opens it if the local path already
// holds a clone.
func (r *Repository) Clone(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(filepath.Join(r.localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo: %w", err)
		}
		r.repo = repo
		r.logger.Info("opened existing clone", "path", r.localPath)
		return nil
	}

	if err := os.MkdirAll(r.localPath, 0o755); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	auth, err := r.auth.GetAuth()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	repo, err := gogit.PlainCloneContext(cloneCtx, r.localPath, false, &gogit.CloneOptions{
		URL:           r.config.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(r.config.Branch),
		SingleBranch:  true,
		Depth:         r.config.Depth,
		Auth:          auth,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	r.repo = repo

	r.logger.Info("cloned repository",
		"branch", r.config.Branch,
		"path", r.localPath,
		"auth", r.auth.Type(),
	)
	return nil
}

// Pull fetches and merges the tracked branch and reports which files
// changed.
func (r *Repository) Pull(ctx context.Context) (*PullResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	fromSHA := ref.Hash().String()

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := r.auth.GetAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	err = worktree.PullContext(pullCtx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(r.config.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	newRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get new HEAD: %w", err)
	}
	toSHA := newRef.Hash().String()

	result := &PullResult{
		FromSHA:    fromSHA,
		ToSHA:      toSHA,
		HadChanges: fromSHA != toSHA,
	}
	if result.HadChanges {
		changed, err := r.changedFiles(fromSHA, toSHA)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files: %w", err)
		}
		result.ChangedFiles = changed
	}
	return result, nil
}

// Head returns the current HEAD commit.
func (r *Repository) Head() (*CommitInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:        commit.Hash.String(),
		Author:     commit.Author.Name,
		Email:      commit.Author.Email,
		Timestamp:  commit.Author.When,
		Message:    strings.TrimSpace(commit.Message),
		Branch:     r.config.Branch,
		Repository: r.config.Repository,
	}, nil
}

// Files returns the absolute paths of the documents under the configured
// path in the working tree. Hidden files and directories are skipped.
func (r *Repository) Files() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}
	root := r.documentRoot()
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("document path does not exist: %w", err)
	}
	return workspace.FindFiles(root, r.files, true)
}

// Resolve maps a repository-relative path to its absolute path. It
// reports false for paths outside the configured path or without a
// document extension.
func (r *Repository) Resolve(rel string) (string, bool) {
	rel = filepath.FromSlash(rel)
	abs := filepath.Join(r.localPath, rel)

	within, err := filepath.Rel(r.documentRoot(), abs)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return "", false
		}
	}
	if !r.files.Matches(abs) {
		return "", false
	}
	return abs, true
}

// LocalPath returns the clone directory.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Close removes the clone if it lives in a temporary directory.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.repo = nil
	if !r.ephemeral {
		return nil
	}
	if err := os.RemoveAll(r.localPath); err != nil {
		return fmt.Errorf("failed to remove clone: %w", err)
	}
	return nil
}

func (r *Repository) documentRoot() string {
	return filepath.Join(r.localPath, filepath.FromSlash(r.config.Path))
}

// changedFiles returns repository-relative paths that differ between two
// commits. The caller holds the lock.
func (r *Repository) changedFiles(fromSHA, toSHA string) ([]string, error) {
	fromCommit, err := r.repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := r.repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		}
		// Renames report both sides; the old path is gone.
		if change.From.Name != "" && change.From.Name != change.To.Name {
			files = append(files, change.From.Name)
		}
	}
	return files, nil
}

// isLocalPath reports whether url names a repository on the local file
// system rather than a remote (scheme://host/... or user@host:path).
func isLocalPath(url string) bool {
	if strings.HasPrefix(url, "file://") {
		return true
	}
	if strings.Contains(url, "://") {
		return false
	}
	if i := strings.Index(url, ":"); i > 0 && !filepath.IsAbs(url) && !strings.ContainsAny(url[:i], `/\`) {
		// scp-like syntax, but not a Windows drive letter
		return len(url[:i]) == 1
	}
	return true
}
