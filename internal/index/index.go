package index

// PostIndex defines the blog search index operations.
// Consumers depend on this interface rather than the concrete *DB type.
type PostIndex interface {
	UpsertPost(p PostRow, body string) error
	DeletePost(id int) error
	AllChecksums() (map[int]string, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
