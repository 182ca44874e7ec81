package githubclient

import "context"

// PageFunc fetches one page of a paginated listing. Pages are numbered
// from 1.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// FetchAll walks a paginated listing page by page and concatenates the
// results. The walk ends the first time a page comes back shorter than
// pageSize (the upstream convention for "last page"), including an empty
// page. Requests are strictly sequential; the next page number is only known
// once the previous request has returned. There is no other bound on the
// page count, so an upstream that keeps returning full pages keeps the walk
// going.
func FetchAll[T any](ctx context.Context, pageSize int, fetch PageFunc[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
	}
}
