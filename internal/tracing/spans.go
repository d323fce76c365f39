package tracing

// Span attribute keys for catalog searches.
const (
	AttrServiceName  = "catalog.service"
	AttrServiceType  = "catalog.service.type"
	AttrServiceURL   = "catalog.service.url"
	AttrSearchText   = "catalog.search.text"
	AttrSearchStart  = "catalog.search.start"
	AttrSearchSize   = "catalog.search.page_size"
	AttrSearchToken  = "catalog.search.token"
	AttrMatched      = "catalog.result.matched"
	AttrReturned     = "catalog.result.returned"
	AttrCacheHit     = "catalog.cache.hit"
	AttrErrorCode    = "error.code"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanSearch     = "catalog.search"
	SpanHTTPFetch  = "catalog.http.fetch"
	SpanHistoryAdd = "history.record"
)
