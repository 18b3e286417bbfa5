// Package scraper knows the markup of the job board: where listing pages
// live, how postings are laid out on them and which table of a detail page
// carries the posting body.
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rsilvagit/cyjobs/internal/model"
)

const (
	listingCellSelector = "td.itd_lb"
	detailTableSelector = "table.FeturedAdTd"
)

// ExtractListing returns the postings on a listing page in document order.
// Cells without an anchor carrying a non-empty href are skipped.
func ExtractListing(doc *goquery.Document, host string) []model.Job {
	var jobs []model.Job
	doc.Find(listingCellSelector).Each(func(i int, s *goquery.Selection) {
		anchor := s.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return strings.TrimSpace(a.AttrOr("href", "")) != ""
		}).First()
		if anchor.Length() == 0 {
			return
		}

		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		jobs = append(jobs, model.Job{
			Title:      strings.TrimSpace(anchor.Text()),
			Link:       JoinLink(host, href),
			PostedDate: postedDate(s, anchor),
		})
	})
	return jobs
}

// postedDate reads the span next to the anchor, falling back to any span in
// the cell.
func postedDate(cell, anchor *goquery.Selection) string {
	span := anchor.SiblingsFiltered("span").First()
	if span.Length() == 0 {
		span = cell.Find("span").First()
	}
	return strings.TrimSpace(span.Text())
}

// JoinLink prefixes a listing href with the host. Absolute hrefs are kept
// and a doubled slash at the seam is collapsed.
func JoinLink(host, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasSuffix(host, "/") && strings.HasPrefix(href, "/") {
		return host + href[1:]
	}
	return host + href
}

// DetailRegion returns the first table nested in the featured ad table of a
// detail page. The selection is empty when the page does not have one.
func DetailRegion(doc *goquery.Document) *goquery.Selection {
	return doc.Find(detailTableSelector).First().Find("table").First()
}
