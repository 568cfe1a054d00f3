package redact

import (
	"context"
	"fmt"

	"github.com/nao1215/slashannots/internal/model"
)

// CollectAuthors counts the annotations of every author in doc.
// Annotations without an author entry are not counted.
func CollectAuthors(ctx context.Context, doc model.Document) (*model.AuthorSummary, error) {
	summary := model.NewAuthorSummary()
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		annots, err := doc.Annotations(pageNr)
		if err != nil {
			return summary, fmt.Errorf("failed to read annotations of page %d: %w", pageNr, err)
		}
		for _, annot := range annots {
			if author, ok := annot.Author(); ok {
				summary.Add(author)
			}
		}
	}
	return summary, nil
}
