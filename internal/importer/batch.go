package importer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ImportAll imports the files at paths with at most workers imports running
// at once. Results are in the order of paths. The first failure cancels the
// imports not yet started and is returned.
func (im *Importer) ImportAll(ctx context.Context, paths []string, opts Options, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := im.Import(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			im.logger.Info("imported file",
				slog.String("import_id", res.ID),
				slog.String("path", path),
				slog.String("technique", res.Technique.Key),
				slog.Int("segments", len(res.Segments)),
				slog.Int("series", len(res.Series)))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
