package filter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rsilvagit/cyjobs/internal/model"
)

// Scan returns the keywords found in any cell of region, in the order they
// were given. Matching is a case-insensitive substring test, so "java"
// matches "JavaScript". An empty region yields no matches.
func Scan(region *goquery.Selection, keywords []string) []string {
	if region == nil || region.Length() == 0 {
		return nil
	}

	var cells []string
	region.Find("td").Each(func(i int, s *goquery.Selection) {
		if text := strings.ToLower(strings.TrimSpace(s.Text())); text != "" {
			cells = append(cells, text)
		}
	})

	var found []string
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		term := strings.ToLower(strings.TrimSpace(kw))
		if term == "" || seen[term] {
			continue
		}
		if containsAny(cells, term) {
			seen[term] = true
			found = append(found, kw)
		}
	}
	return found
}

// Match scans region and appends the matched keywords to job.
func Match(job *model.Job, region *goquery.Selection, keywords []string) bool {
	job.Keywords = append(job.Keywords, Scan(region, keywords)...)
	return job.Matched()
}

// Apply returns only the jobs that matched at least one keyword.
func Apply(jobs []model.Job) []model.Job {
	var result []model.Job
	for _, j := range jobs {
		if j.Matched() {
			result = append(result, j)
		}
	}
	return result
}

func containsAny(cells []string, term string) bool {
	for _, c := range cells {
		if strings.Contains(c, term) {
			return true
		}
	}
	return false
}
