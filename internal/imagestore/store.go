// Package imagestore hosts uploaded part and bill photos. A Store uploads raw
// bytes and hands back a stable URL; deleting by that URL is best effort.
//
// Two backends are provided: Cloudinary for production and Local, which keeps
// files on disk and is served by the router under a static prefix.
package imagestore

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Store is the image-host capability used by the upload handler and the
// mutation service.
type Store interface {
	// Upload stores data under folder and returns its public URL.
	Upload(ctx context.Context, data []byte, folder string) (string, error)
	// Delete removes the object behind url. It reports false when the host
	// did not delete anything (unknown URL, already gone).
	Delete(ctx context.Context, url string) (bool, error)
}

// ErrForeignURL is returned by Delete when the URL does not belong to the store.
var ErrForeignURL = errors.New("imagestore: url not owned by this store")

// DeleteConcurrency bounds parallel deletions in DeleteAll.
const DeleteConcurrency = 4

var deletions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stockrakh_image_deletions_total",
		Help: "Image-host deletions by outcome.",
	},
	[]string{"result"}, // deleted|missing|error
)

func init() {
	prometheus.MustRegister(deletions)
}

// DeleteResult summarizes a DeleteAll run.
type DeleteResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}

// DeleteAll deletes every distinct non-empty URL in urls, at most
// DeleteConcurrency at a time. Failures are logged at WARN and counted; they
// never abort the run and DeleteAll never returns an error.
func DeleteAll(ctx context.Context, s Store, urls []string) DeleteResult {
	uniq := dedupe(urls)
	if s == nil || len(uniq) == 0 {
		return DeleteResult{}
	}
	lg := zerolog.Ctx(ctx)
	if lg.GetLevel() == zerolog.Disabled {
		lg = &log.Logger
	}

	var (
		mu  sync.Mutex
		res DeleteResult
	)
	g := new(errgroup.Group)
	g.SetLimit(DeleteConcurrency)
	for _, u := range uniq {
		g.Go(func() error {
			ok, err := s.Delete(ctx, u)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				deletions.WithLabelValues("error").Inc()
				res.Failed = append(res.Failed, u)
				lg.Warn().Err(err).Str("url", u).Msg("image delete failed")
			case !ok:
				deletions.WithLabelValues("missing").Inc()
				res.Failed = append(res.Failed, u)
				lg.Warn().Str("url", u).Msg("image host did not delete image")
			default:
				deletions.WithLabelValues("deleted").Inc()
				res.Deleted++
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// Diff returns the URLs in old that are absent from new, in order and
// without duplicates.
func Diff(old, new []string) []string {
	keep := make(map[string]struct{}, len(new))
	for _, u := range new {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range dedupe(old) {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
