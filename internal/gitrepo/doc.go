// Package gitrepo contains helpers for interrogating Git working copies.
//
// It exposes RepositoryManager for inspecting worktree cleanliness and local
// branch references, consumed by the checkout and publish services that need
// structured Git operations.
package gitrepo
