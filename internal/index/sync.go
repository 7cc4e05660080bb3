package index

import (
	"log/slog"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
)

// Sync brings the index up to date with posts:
//   - new/changed posts (by checksum) are upserted
//   - indexed posts no longer present are deleted
func Sync(db PostIndex, posts []models.BlogPost, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	current := make(map[int]struct{}, len(posts))
	for _, p := range posts {
		current[p.ID] = struct{}{}

		cs := checksum.Post(p)
		if checksums[p.ID] == cs {
			continue
		}
		if err := db.UpsertPost(rowFor(p, cs), p.Body); err != nil {
			logger.Warn("sync: index failed", slog.Int("post", p.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.Int("post", p.ID), slog.String("slug", p.Slug))
		}
	}

	for id := range checksums {
		if _, ok := current[id]; !ok {
			if err := db.DeletePost(id); err != nil {
				logger.Warn("sync: delete failed", slog.Int("post", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.Int("post", id))
			}
		}
	}
	return nil
}

func rowFor(p models.BlogPost, cs string) PostRow {
	return PostRow{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Category:  p.Category,
		Tags:      p.Tags,
		Checksum:  cs,
		Published: p.Date.String(),
	}
}
