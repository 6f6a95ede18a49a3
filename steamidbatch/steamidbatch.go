package steamidbatch

import (
	"context"
	"steamid-convert/steamidutil"

	"golang.org/x/sync/errgroup"
)

type Result struct {
	Input   string
	SteamID steamidutil.SteamID
	Format  steamidutil.Format
	Err     error
}

// Parse converts every input concurrently with at most limit conversions in
// flight. Results are in input order. A failing input only sets Err on its
// own Result; the returned error is non-nil only if ctx ends first.
func Parse(ctx context.Context, inputs []string, limit int) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)

	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, input := range inputs {
		i, input := i, input

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s, format, err := steamidutil.Parse(input)

			results[i] = Result{
				Input:   input,
				SteamID: s,
				Format:  format,
				Err:     err,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
