package cli

import (
	"context"

	"taskdeck/internal/store"
)

func cmdTags(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td tags")
		o.Println("")
		o.Println("List all tags in use, sorted alphabetically.")

		return nil
	}

	tags, err := s.GetAllTags(ctx)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		o.Println(tag)
	}

	return nil
}
