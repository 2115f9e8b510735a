// Package publish exports a bundle to a GitHub repository: one branch and
// one commit per export, containing the bundle's files verbatim.
package publish

import (
	"context"
	"fmt"
	"strings"

	gogh "github.com/google/go-github/v68/github"

	"github.com/modforge/modforge/internal/bundle"
)

// Client wraps the GitHub API for bundle export.
type Client struct {
	gh *gogh.Client
}

// New creates a GitHub client authenticated with the given token.
func New(token string) *Client {
	return &Client{
		gh: gogh.NewClient(nil).WithAuthToken(token),
	}
}

// Publish commits the bundle's files to a fresh branch of the repository
// (modforge/<short-id>) on top of the default branch. Returns the branch
// name and the commit URL.
func (c *Client) Publish(ctx context.Context, repoFullName string, b *bundle.Bundle) (string, string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return "", "", err
	}

	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", "", fmt.Errorf("getting repository: %w", err)
	}
	baseBranch := r.GetDefaultBranch()
	if baseBranch == "" {
		baseBranch = "main"
	}

	baseRef, _, err := c.gh.Git.GetRef(ctx, owner, repo, "refs/heads/"+baseBranch)
	if err != nil {
		return "", "", fmt.Errorf("getting base ref: %w", err)
	}

	entries := make([]*gogh.TreeEntry, 0, len(b.Files))
	for _, path := range b.Paths() {
		entries = append(entries, &gogh.TreeEntry{
			Path:    gogh.Ptr(path),
			Mode:    gogh.Ptr("100644"),
			Type:    gogh.Ptr("blob"),
			Content: gogh.Ptr(b.Files[path]),
		})
	}

	tree, _, err := c.gh.Git.CreateTree(ctx, owner, repo, baseRef.Object.GetSHA(), entries)
	if err != nil {
		return "", "", fmt.Errorf("creating tree: %w", err)
	}

	message := fmt.Sprintf("modforge: %s", b.Summary)
	commit, _, err := c.gh.Git.CreateCommit(ctx, owner, repo, &gogh.Commit{
		Message: gogh.Ptr(message),
		Tree:    tree,
		Parents: []*gogh.Commit{{SHA: baseRef.Object.SHA}},
	}, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating commit: %w", err)
	}

	branch := "modforge/" + shortID(b.ID)
	_, _, err = c.gh.Git.CreateRef(ctx, owner, repo, &gogh.Reference{
		Ref:    gogh.Ptr("refs/heads/" + branch),
		Object: &gogh.GitObject{SHA: commit.SHA},
	})
	if err != nil {
		return "", "", fmt.Errorf("creating branch: %w", err)
	}

	return branch, commit.GetHTMLURL(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// splitRepo parses "owner/repo" format.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format %q (expected owner/repo)", fullName)
	}
	return parts[0], parts[1], nil
}
