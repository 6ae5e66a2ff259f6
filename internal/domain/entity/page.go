package entity

import "strconv"

// PageKey identifies one page of results for one search term.
// The empty term is valid and means "no filter".
type PageKey struct {
	Term string `json:"term"`
	Page int    `json:"page"`
}

// NewPageKey builds a key for the given term and page number.
func NewPageKey(term string, page int) PageKey {
	return PageKey{Term: term, Page: page}
}

// Next returns the key of the following page for the same term.
func (k PageKey) Next() PageKey {
	return PageKey{Term: k.Term, Page: k.Page + 1}
}

// String renders the key as "term_page".
func (k PageKey) String() string {
	return k.Term + "_" + strconv.Itoa(k.Page)
}

// Page is one fetched batch of characters plus the total page count
// reported by the source for the same search term.
type Page struct {
	Results    []Character `json:"results"`
	TotalPages int         `json:"total_pages"`
}

// HasNext reports whether a page after pageNumber exists for this term.
func (p *Page) HasNext(pageNumber int) bool {
	return p != nil && pageNumber+1 <= p.TotalPages
}

// Len returns the number of characters on the page.
func (p *Page) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Results)
}

// Clone returns a copy whose Results can be changed without affecting p.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	results := make([]Character, len(p.Results))
	copy(results, p.Results)
	return &Page{Results: results, TotalPages: p.TotalPages}
}
