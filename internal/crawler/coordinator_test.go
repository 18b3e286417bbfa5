package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rsilvagit/cyjobs/internal/config"
	"github.com/rsilvagit/cyjobs/internal/httpclient"
	"github.com/rsilvagit/cyjobs/internal/logger"
	"github.com/rsilvagit/cyjobs/internal/model"
	"github.com/rsilvagit/cyjobs/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const host = "http://example.test/"

func listingPage(cells ...string) string {
	return "<html><body><table>" + strings.Join(cells, "") + "</table></body></html>"
}

func listingCell(href, title, date string) string {
	return fmt.Sprintf(`<tr><td class="itd_lb"><a href="%s">%s</a><span>%s</span></td></tr>`, href, title, date)
}

func detailPage(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="FeturedAdTd"><tr><td><table><tr>`)
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString(`</tr></table></td></tr></table></body></html>`)
	return b.String()
}

func listingURL(pageSize, offset int) string {
	return fmt.Sprintf("%smy_jobs/jobs_job_list.html?cv_search=0,,,all,%d,%d", host, pageSize, offset)
}

// mapFetcher serves canned bodies and records the order of requests.
type mapFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]error
	calls []string
}

func (f *mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, &httpclient.StatusError{URL: url, StatusCode: http.StatusNotFound}
	}
	return []byte(body), nil
}

type recordingWriter struct {
	calls int
	jobs  []model.Job
	err   error
}

func (w *recordingWriter) WriteJobs(jobs []model.Job) error {
	w.calls++
	w.jobs = jobs
	return w.err
}

func mustConfig(t *testing.T, keywords []string, pageSize, pageCount int) config.Config {
	t.Helper()
	cfg, err := config.New(
		config.WithHost(host),
		config.WithKeywords(keywords...),
		config.WithPages(pageSize, pageCount),
		config.WithOutputPath(filepath.Join(t.TempDir(), "jobs.xlsx")),
	)
	require.NoError(t, err)
	return cfg
}

func TestCrawlScenario(t *testing.T) {
	cfg := mustConfig(t, []string{"python"}, 10, 0)
	f := &mapFetcher{pages: map[string]string{
		listingURL(10, 0): listingPage(
			listingCell("/job/1", "Python Dev", "01 Jan"),
			listingCell("/job/2", "Java Dev", "02 Jan"),
		),
		host + "job/1": detailPage("Senior Python Engineer"),
		host + "job/2": detailPage("Java", "Spring"),
	}}

	w := &recordingWriter{}
	jobs, err := New(cfg, f, logger.NewNop(), w).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, host+"job/1", jobs[0].Link)
	assert.Equal(t, "Python Dev", jobs[0].Title)
	assert.Equal(t, "01 Jan", jobs[0].PostedDate)
	assert.Equal(t, []string{"python"}, jobs[0].Keywords)
	assert.Equal(t, listingURL(10, 0), jobs[0].SourcePage)
	assert.Equal(t, 1, w.calls)
}

func TestCrawlDetailFetchesAreSequentialInListingOrder(t *testing.T) {
	cfg := mustConfig(t, []string{"go"}, 10, 0)
	f := &mapFetcher{pages: map[string]string{
		listingURL(10, 0): listingPage(
			listingCell("/job/a", "A", ""),
			listingCell("/job/b", "B", ""),
			listingCell("/job/c", "C", ""),
		),
		host + "job/a": detailPage("Go"),
		host + "job/b": detailPage("Golang"),
		host + "job/c": detailPage("GO engineer"),
	}}

	jobs := New(cfg, f, logger.NewNop()).Crawl(context.Background())

	assert.Equal(t, []string{listingURL(10, 0), host + "job/a", host + "job/b", host + "job/c"}, f.calls)
	require.Len(t, jobs, 3)
	assert.Equal(t, host+"job/a", jobs[0].Link)
	assert.Equal(t, host+"job/c", jobs[2].Link)
}

func TestCrawlRequestsEveryListingPage(t *testing.T) {
	cfg := mustConfig(t, []string{"go"}, 20, 40)
	f := &mapFetcher{pages: map[string]string{}}
	for _, off := range []int{0, 20, 40} {
		link := fmt.Sprintf("/job/%d", off)
		f.pages[listingURL(20, off)] = listingPage(listingCell(link, "Job", ""))
		f.pages[host+link[1:]] = detailPage("Go developer")
	}

	jobs := New(cfg, f, logger.NewNop()).Crawl(context.Background())

	require.Len(t, jobs, 3)
	var sources []string
	for _, j := range jobs {
		sources = append(sources, j.SourcePage)
	}
	sort.Strings(sources)
	assert.Equal(t, []string{listingURL(20, 0), listingURL(20, 20), listingURL(20, 40)}, sources)
	assert.Len(t, f.calls, 6)
}

func TestCrawlFailuresStayLocal(t *testing.T) {
	cfg := mustConfig(t, []string{"rust"}, 10, 10)
	f := &mapFetcher{
		pages: map[string]string{
			listingURL(10, 10): listingPage(
				listingCell("/job/broken", "Broken", ""),
				listingCell("/job/ok", "OK", ""),
			),
			host + "job/ok": detailPage("Rust services"),
		},
		fail: map[string]error{
			listingURL(10, 0):    errors.New("connection reset"),
			host + "job/broken": errors.New("timeout"),
		},
	}

	jobs := New(cfg, f, logger.NewNop()).Crawl(context.Background())

	require.Len(t, jobs, 1)
	assert.Equal(t, host+"job/ok", jobs[0].Link)
}

func TestCrawlMissingRegionIsNoMatch(t *testing.T) {
	cfg := mustConfig(t, []string{"python"}, 10, 0)
	f := &mapFetcher{pages: map[string]string{
		listingURL(10, 0): listingPage(listingCell("/job/1", "Python Dev", "")),
		host + "job/1":    `<html><body><p>Python everywhere but not in the ad table</p></body></html>`,
	}}

	assert.Empty(t, New(cfg, f, logger.NewNop()).Crawl(context.Background()))
}

func TestRunSkipsWritersWhenEmpty(t *testing.T) {
	cfg := mustConfig(t, []string{"cobol"}, 10, 0)
	f := &mapFetcher{pages: map[string]string{
		listingURL(10, 0): listingPage(listingCell("/job/1", "Python Dev", "")),
		host + "job/1":    detailPage("Python"),
	}}

	w := &recordingWriter{}
	jobs, err := New(cfg, f, logger.NewNop(), w).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 0, w.calls)
}

func TestRunJoinsWriterErrors(t *testing.T) {
	cfg := mustConfig(t, []string{"python"}, 10, 0)
	f := &mapFetcher{pages: map[string]string{
		listingURL(10, 0): listingPage(listingCell("/job/1", "Python Dev", "")),
		host + "job/1":    detailPage("Python"),
	}}

	failing := &recordingWriter{err: errors.New("webhook down")}
	ok := &recordingWriter{}
	jobs, err := New(cfg, f, logger.NewNop(), failing, ok).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, ok.calls)
}

func TestRunAgainstHTTPServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/my_jobs/jobs_job_list.html", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cv_search") != "0,,,all,10,0" {
			_, _ = w.Write([]byte(listingPage()))
			return
		}
		_, _ = w.Write([]byte(listingPage(
			listingCell("/job/1", "Python Dev", "01 Jan"),
			listingCell("/job/2", "Java Dev", "02 Jan"),
		)))
	})
	mux.HandleFunc("/job/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPage("Senior Python Engineer")))
	})
	mux.HandleFunc("/job/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPage("Java only")))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	out := filepath.Join(t.TempDir(), "jobs.xlsx")
	cfg, err := config.New(
		config.WithHost(ts.URL+"/"),
		config.WithKeywords("python"),
		config.WithPages(10, 10),
		config.WithOutputPath(out),
	)
	require.NoError(t, err)

	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)

	jobs, err := New(cfg, client, logger.NewNop(), output.NewXLSXWriter(out)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, ts.URL+"/job/1", jobs[0].Link)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(output.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Python Dev", "python", "01 Jan"}, rows[1])
}
