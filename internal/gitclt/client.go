// Package gitclt runs git operations on remote and local repositories.
package gitclt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

const loggerName = "git_client"

const remoteName = "origin"

// BranchDeleter deletes branches via a hosting provider API.
type BranchDeleter interface {
	DeleteBranch(ctx context.Context, owner, repo, branch string) error
}

// Client runs git operations without requiring a git installation.
type Client struct {
	auth          transport.AuthMethod
	githubDeleter BranchDeleter
	logger        *zap.Logger
}

type Option func(*Client)

// WithBasicAuth authenticates against remote repositories with username
// and password.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		if username == "" && password == "" {
			return
		}

		c.auth = &githttp.BasicAuth{
			Username: username,
			Password: password,
		}
	}
}

// WithGitHubBranchDeleter deletes branches of repositories hosted on
// github.com via d instead of pushing to the remote.
func WithGitHubBranchDeleter(d BranchDeleter) Option {
	return func(c *Client) {
		c.githubDeleter = d
	}
}

func New(opts ...Option) *Client {
	c := Client{
		logger: zap.L().Named(loggerName),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// Clone clones remoteURL into dir.
// If noCheckout is true, only the history is fetched and the working tree
// stays empty.
func (c *Client) Clone(ctx context.Context, dir, remoteURL string, noCheckout bool) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:        remoteURL,
		Auth:       c.auth,
		RemoteName: remoteName,
		NoCheckout: noCheckout,
	})
	if err != nil {
		return fmt.Errorf("cloning %s failed: %w", remoteURL, err)
	}

	c.logger.Debug(
		"repository cloned",
		logfields.Event("git_repository_cloned"),
		logfields.Repository(remoteURL),
		logfields.Workspace(dir),
	)

	return nil
}

// MergeBase returns the best common ancestors of commitA and commitB, one
// commit ID per line.
// The commits can be commit IDs, branch names or other revisions. Branch
// names are resolved to the branches of the origin remote first.
// If the commits have no common ancestor, an empty string is returned.
func (c *Client) MergeBase(ctx context.Context, dir, commitA, commitB string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("opening repository failed: %w", err)
	}

	a, err := resolveCommit(repo, commitA)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := resolveCommit(repo, commitB)
	if err != nil {
		return "", err
	}

	bases, err := mergeBase(ctx, a, b)
	if err != nil {
		return "", fmt.Errorf("computing merge-base of %s and %s failed: %w", commitA, commitB, err)
	}

	var sb strings.Builder
	for _, base := range bases {
		sb.WriteString(base.Hash.String())
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// mergeBase runs the commit graph walk of a.MergeBase(b) and returns when
// it finished or ctx is done.
// When ctx is done first, the walk continues in the background until it
// fails on the removed workspace or finishes.
func mergeBase(ctx context.Context, a, b *object.Commit) ([]*object.Commit, error) {
	type result struct {
		bases []*object.Commit
		err   error
	}

	resultCh := make(chan result, 1)

	go func() {
		bases, err := a.MergeBase(b)
		resultCh <- result{bases: bases, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}

		return res.bases, ctx.Err()

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	candidates := []plumbing.Revision{plumbing.Revision(rev)}
	if !plumbing.IsHash(rev) {
		candidates = append(
			[]plumbing.Revision{plumbing.Revision(plumbing.NewRemoteReferenceName(remoteName, rev))},
			candidates...,
		)
	}

	var errs []error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(candidate)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		commit, err := repo.CommitObject(*hash)
		if err != nil {
			return nil, fmt.Errorf("retrieving commit %s failed: %w", hash, err)
		}

		return commit, nil
	}

	return nil, fmt.Errorf("resolving revision %q failed: %w", rev, errors.Join(errs...))
}

// DeleteRemoteBranch deletes branch in the repository at remoteURL.
// Deleting a branch that does not exist succeeds.
func (c *Client) DeleteRemoteBranch(ctx context.Context, remoteURL, branch string) error {
	if branch == "" {
		return errors.New("provided branch name is empty")
	}

	logger := c.logger.With(logfields.Repository(remoteURL), logfields.Branch(branch))

	if c.githubDeleter != nil {
		if owner, repo, ok := ParseGitHubURL(remoteURL); ok {
			if err := c.githubDeleter.DeleteBranch(ctx, owner, repo, branch); err != nil {
				return fmt.Errorf("deleting branch via github api failed: %w", err)
			}

			logger.Debug("remote branch deleted via github api", logfields.Event("git_remote_branch_deleted"))

			return nil
		}
	}

	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: remoteName,
		URLs: []string{remoteURL},
	})

	err := remote.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(":" + plumbing.NewBranchReferenceName(branch).String())},
		Auth:       c.auth,
	})
	if err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			logger.Debug(
				"remote branch does not exist, nothing to delete",
				logfields.Event("git_remote_branch_not_found"),
			)
			return nil
		}

		return fmt.Errorf("pushing branch deletion failed: %w", err)
	}

	logger.Debug("remote branch deleted", logfields.Event("git_remote_branch_deleted"))

	return nil
}
