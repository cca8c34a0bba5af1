// Package provenance reports which git revision a set of configuration
// files comes from, including whether any of them carry uncommitted changes.
package provenance

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Revision describes the git state of a configuration directory.
type Revision struct {
	// Root is the root of the working tree the directory belongs to
	Root string
	// Commit is the current HEAD commit hash
	Commit string
	// Branch is the current branch name
	Branch string
	// Tags lists the tags pointing to the current commit
	Tags []string
	// Dirty indicates if the working tree has uncommitted changes
	Dirty bool
	// Changed lists the given files that differ from HEAD, relative to Root
	Changed []string
}

// Describe opens the repository containing dir, seeking upwards if
// necessary, and reports its revision. Files outside the working tree are
// ignored when computing Changed.
func Describe(dir string, files []string) (*Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to find a Git repository that path %q belongs to: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for repository %q: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference for repository %q: %w", dir, err)
	}

	tags, err := tagsAt(repo, head.Hash())
	if err != nil {
		return nil, err
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status for repository %q: %w", dir, err)
	}

	root := worktree.Filesystem.Root()
	changed := make([]string, 0)
	for _, file := range files {
		rel, ok := relativeTo(root, file)
		if !ok {
			continue
		}
		// Unmodified files have no status entry.
		if _, found := status[rel]; found {
			changed = append(changed, rel)
		}
	}
	sort.Strings(changed)

	return &Revision{
		Root:    root,
		Commit:  head.Hash().String(),
		Branch:  head.Name().Short(),
		Tags:    tags,
		Dirty:   !status.IsClean(),
		Changed: changed,
	}, nil
}

func tagsAt(repo *git.Repository, hash plumbing.Hash) ([]string, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		revHash, err := repo.ResolveRevision(plumbing.Revision(ref.Name()))
		if err != nil {
			return fmt.Errorf("failed to get tag commit object for tag %q: %w", ref.Name().Short(), err)
		}
		if *revHash == hash {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over tags: %w", err)
	}

	return tags, nil
}

// relativeTo returns file relative to root in the slash-separated form git
// status uses.
func relativeTo(root, file string) (string, bool) {
	root = resolveLinks(root)
	file = resolveLinks(file)

	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func resolveLinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
