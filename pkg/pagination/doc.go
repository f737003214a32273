// Package pagination normalizes paged collection responses.
//
// Collection endpoints answer a page request in one of two shapes:
//
//	{"content": [...], "number": 0, "totalPages": 4, "last": false}
//	[...]
//
// The first is a Spring Data style envelope, the second a bare array of the
// page items. Decode inspects the body once, at the network boundary, and
// produces a single canonical Page for the rest of the code to consume:
//
//	page, err := pagination.Decode[artist.Record](body)
//	if errors.Is(err, pagination.ErrMalformed) {
//		// not JSON, or an object without a content array
//	}
//	if page.IsLast(requestedPage, pageSize) {
//		// stop offering more pages
//	}
//
// IsLast is the only place that decides whether more pages exist:
//   - an empty page is always the last one
//   - envelope metadata wins when present ("last", then number/totalPages)
//   - a page shorter than the requested size is the last one
package pagination
