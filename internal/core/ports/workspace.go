package ports

// Workspace manages the per-document work directory holding the
// materialized slide documents and their rendered page artifacts.
type Workspace interface {
	// Create returns the work directory for the given input document and a
	// cleanup function. With keep set, the directory is persistent (reused
	// across runs for caching) and cleanup is a no-op; otherwise the
	// directory is ephemeral and cleanup removes it.
	Create(input string, keep bool) (dir string, cleanup func(), err error)

	// Clean removes the persistent work directory of the given document.
	Clean(input string) error
}
