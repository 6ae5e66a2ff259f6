package usecase

import "errors"

var (
	// ErrFetch marks a failed primary page request.
	ErrFetch = errors.New("page fetch failed")
	// ErrPrefetch marks a failed speculative next-page fetch. It never reaches
	// the caller of PageCache.Get.
	ErrPrefetch = errors.New("page prefetch failed")
	// ErrNotFound is returned by PageCache.RequestPage when there is nothing to render.
	ErrNotFound = errors.New("no characters found")
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page number must be at least 1")
)
