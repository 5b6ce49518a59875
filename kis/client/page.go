package client

// Page is the continuation cursor the broker threads through paginated
// endpoints: an fk/nk key pair echoed back on the next request. Size caps
// how many rows the caller wants per call; the venue itself tops out at 100.
type Page struct {
	Search string // ctx_area_fk100 (or fk200 when Wide)
	Key    string // ctx_area_nk100 (or nk200 when Wide)
	Size   int

	// Wide marks the 200-byte cursor variant some endpoints use; the
	// continuation params must go back out under the matching names.
	Wide bool
}

// MaxPageSize is the largest row count the paginated endpoints return.
const MaxPageSize = 100

// FirstPage starts a pagination from the beginning.
func FirstPage(size int) Page {
	return Page{Size: size}
}

// To caps the page size, keeping the cursor.
func (p Page) To(size int) Page {
	if size > MaxPageSize || size <= 0 {
		size = MaxPageSize
	}
	p.Size = size
	return p
}

// IsFirst reports whether the cursor has not advanced yet.
func (p Page) IsFirst() bool {
	return p.Search == "" && p.Key == ""
}

// pageStatus is the tr_cont continuation marker on responses:
// F and M mean more pages follow, D and E mean the last page.
type pageStatus string

func (s pageStatus) hasNext() bool {
	return s == "F" || s == "M"
}

// PageResult is the cursor state a paginated call hands back.
type PageResult struct {
	Next Page
	Last bool
}
