package secondary

import "context"

// SourceFetcher retrieves student files from the source host. Absence is a
// normal result; any returned error is a transport or API failure.
type SourceFetcher interface {
	// FetchFile returns the decoded file content, or found=false when the
	// path does not exist
	FetchFile(ctx context.Context, owner, repo, path string) (content string, found bool, err error)

	// RepoExists reports whether the repository exists and is accessible
	RepoExists(ctx context.Context, owner, repo string) (bool, error)

	// PathExists reports whether a file or directory exists in the repository
	PathExists(ctx context.Context, owner, repo, path string) (bool, error)
}
