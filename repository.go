package minigit

import (
	"fmt"
	"strings"

	"github.com/bellarboulter/MiniGit/pkg/commit"
	"github.com/bellarboulter/MiniGit/pkg/sequence"
)

// Repository is a named container for a chain of commits, ordered
// most-recent-first from the head. The chain itself is the only storage
// structure; traversal operations are linear in the number of commits.
//
// Repositories are not safe for concurrent use. Callers that share a
// repository across goroutines must serialize access externally; a traversal
// interleaved with a splice can observe an inconsistent chain.
type Repository struct {
	name string
	head *commit.Commit
	seq  *sequence.Sequence
}

// Name returns the repository name fixed at construction.
func (r *Repository) Name() string {
	return r.name
}

// Head returns the identifier of the current head commit. The second return
// is false when the repository holds no commits.
func (r *Repository) Head() (string, bool) {
	if r.head == nil {
		return "", false
	}
	return r.head.ID(), true
}

// Size returns the number of commits reachable from the head.
func (r *Repository) Size() int {
	count := 0
	for curr := r.head; curr != nil; curr = curr.Past() {
		count++
	}
	return count
}

// String renders the repository as "<name> - No commits" when empty, or
// "<name> - Current head: <head description>" otherwise.
func (r *Repository) String() string {
	if r.head == nil {
		return r.name + " - No commits"
	}
	return r.name + " - Current head: " + r.head.String()
}

// Contains reports whether a commit with the given identifier is in the
// chain. Identifiers are compared by value.
func (r *Repository) Contains(targetID string) bool {
	for curr := r.head; curr != nil; curr = curr.Past() {
		if curr.ID() == targetID {
			return true
		}
	}
	return false
}

// History returns the descriptions of the min(n, size) most recent commits,
// most-recent-first, one per line. An empty repository yields the empty
// string. n must be positive.
func (r *Repository) History(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("history count must be positive, got %d: %w", n, ErrInvalidArgument)
	}
	var lines []string
	for curr := r.head; curr != nil && len(lines) < n; curr = curr.Past() {
		lines = append(lines, curr.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Commit creates a new commit with the given message, makes it the head, and
// returns its identifier. The previous head becomes the new commit's
// predecessor. This is the only operation that grows the chain.
func (r *Repository) Commit(message string) (string, error) {
	c, err := commit.New(message, r.head, r.seq)
	if err != nil {
		return "", err
	}
	r.head = c
	return c.ID(), nil
}

// Drop removes the commit with the given identifier from the chain, keeping
// the surviving commits in their original relative order. It returns false
// when the repository is empty or no commit matches.
func (r *Repository) Drop(targetID string) bool {
	if r.head == nil {
		return false
	}
	if r.head.ID() == targetID {
		r.head = r.head.Past()
		return true
	}
	for curr := r.head; curr.Past() != nil; curr = curr.Past() {
		if curr.Past().ID() == targetID {
			curr.SetPast(curr.Past().Past())
			return true
		}
	}
	return false
}

// Synchronize moves every commit from other into this repository and leaves
// other empty. If this repository has no commits it adopts other's head
// directly; otherwise other's chain is attached after this chain's oldest
// commit. Chains are spliced by reference and no identifiers change, so the
// merged history keeps each chain's internal order rather than interleaving
// by timestamp. Synchronizing a repository with itself or with nil is a
// no-op.
func (r *Repository) Synchronize(other *Repository) {
	if other == nil || other == r {
		return
	}
	if r.head == nil {
		r.head = other.head
	} else if other.head != nil {
		tail := r.head
		for tail.Past() != nil {
			tail = tail.Past()
		}
		tail.SetPast(other.head)
	}
	other.head = nil
}
