// Package crawler runs a crawl: it enumerates the listing pages, scans each
// posting's detail page and hands the matches to the configured writers.
package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rsilvagit/cyjobs/internal/config"
	"github.com/rsilvagit/cyjobs/internal/filter"
	"github.com/rsilvagit/cyjobs/internal/logger"
	"github.com/rsilvagit/cyjobs/internal/model"
	"github.com/rsilvagit/cyjobs/internal/output"
	"github.com/rsilvagit/cyjobs/internal/scraper"
)

// Fetcher retrieves the body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Coordinator runs one goroutine per listing page. Within a page the
// detail pages are fetched and scanned one after another in listing order.
type Coordinator struct {
	cfg     config.Config
	fetcher Fetcher
	log     logger.Logger
	writers []output.ResultWriter
}

// New returns a Coordinator for cfg. Writers are only called when the crawl
// found at least one job.
func New(cfg config.Config, fetcher Fetcher, log logger.Logger, writers ...output.ResultWriter) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		fetcher: fetcher,
		log:     log,
		writers: writers,
	}
}

// Run crawls and then writes the matches. It returns the matched jobs and
// the joined error of any writer that failed.
func (c *Coordinator) Run(ctx context.Context) ([]model.Job, error) {
	start := time.Now()
	jobs := c.Crawl(ctx)

	if len(jobs) == 0 {
		c.log.Info("no jobs found for keywords", logger.Strings("keywords", c.cfg.Keywords))
		return nil, nil
	}

	var errs []error
	for _, w := range c.writers {
		if err := w.WriteJobs(jobs); err != nil {
			c.log.Error("writing results failed", logger.String("writer", fmt.Sprintf("%T", w)), logger.Error(err))
			errs = append(errs, err)
		}
	}

	c.log.Info("crawl finished",
		logger.Int("jobs", len(jobs)),
		logger.String("output", c.cfg.OutputPath),
		logger.Duration("elapsed", time.Since(start)),
	)
	return jobs, errors.Join(errs...)
}

// Crawl fetches every listing page concurrently and returns the jobs whose
// detail page matched a keyword, in page completion order.
func (c *Coordinator) Crawl(ctx context.Context) []model.Job {
	pages := scraper.ListingPages(c.cfg.Host, c.cfg.PageSize, c.cfg.PageCount)
	c.log.Info("starting crawl",
		logger.String("host", c.cfg.Host),
		logger.Int("listing_pages", len(pages)),
		logger.Strings("keywords", c.cfg.Keywords),
	)

	var (
		mu      sync.Mutex
		matched []model.Job
		wg      sync.WaitGroup
	)

	for _, page := range pages {
		wg.Add(1)
		go func(page string) {
			defer wg.Done()
			jobs := c.crawlPage(ctx, page)
			if len(jobs) == 0 {
				return
			}
			mu.Lock()
			matched = append(matched, jobs...)
			mu.Unlock()
		}(page)
	}
	wg.Wait()

	return matched
}

// crawlPage handles one listing page. A failed listing fetch yields no jobs;
// a failed detail fetch skips only that job.
func (c *Coordinator) crawlPage(ctx context.Context, page string) []model.Job {
	log := c.log.With(logger.String("page", page))

	doc, err := c.document(ctx, page)
	if err != nil {
		log.Warn("listing page skipped", logger.Error(err))
		return nil
	}

	jobs := scraper.ExtractListing(doc, c.cfg.Host)
	log.Debug("listing extracted", logger.Int("jobs", len(jobs)))

	for i := range jobs {
		job := &jobs[i]
		job.SourcePage = page

		detail, err := c.document(ctx, job.Link)
		if err != nil {
			log.Warn("detail page skipped", logger.String("link", job.Link), logger.Error(err))
			continue
		}
		if filter.Match(job, scraper.DetailRegion(detail), c.cfg.Keywords) {
			log.Info("keyword found", logger.String("link", job.Link), logger.Strings("keywords", job.Keywords))
		}
	}

	return filter.Apply(jobs)
}

func (c *Coordinator) document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crawler: parsing %s: %w", url, err)
	}
	return doc, nil
}
