package scraper

import "fmt"

const listingPath = "my_jobs/jobs_job_list.html"

// PageAddressBuilder yields successive listing page addresses. Each call to
// Next uses the running offset and then advances it by the page size; there
// is no reset. A zero page size makes Next return the same address forever.
type PageAddressBuilder struct {
	host     string
	pageSize int
	offset   int
}

// NewPageAddressBuilder returns a builder starting at offset 0.
func NewPageAddressBuilder(host string, pageSize int) *PageAddressBuilder {
	return &PageAddressBuilder{host: host, pageSize: pageSize}
}

// Next returns the address at the current offset and advances the offset.
func (b *PageAddressBuilder) Next() string {
	addr := fmt.Sprintf("%s%s?cv_search=0,,,all,%d,%d", b.host, listingPath, b.pageSize, b.offset)
	b.offset += b.pageSize
	return addr
}

// PageCount returns how many listing pages a crawl requests: the number of
// strides 0, pageSize, 2*pageSize, ... strictly below pageCount+pageSize.
// The bound is kept as the site crawler has always computed it, which asks
// for one page beyond pageCount/pageSize.
func PageCount(pageCount, pageSize int) int {
	if pageSize <= 0 || pageCount < 0 {
		return 0
	}
	return (pageCount + pageSize + pageSize - 1) / pageSize
}

// ListingPages returns every listing address for a crawl. The iteration
// count only bounds the loop; each address comes from the builder's own
// running offset.
func ListingPages(host string, pageSize, pageCount int) []string {
	n := PageCount(pageCount, pageSize)
	b := NewPageAddressBuilder(host, pageSize)
	pages := make([]string, 0, n)
	for range n {
		pages = append(pages, b.Next())
	}
	return pages
}
