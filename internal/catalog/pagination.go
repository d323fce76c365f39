package catalog

// BBox is a record's bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
	CRS                    string
}

// Reference is an online resource attached to a record.
type Reference struct {
	Scheme string
	URL    string
}

// Record is one catalog search hit.
type Record struct {
	Identifier string
	Title      string
	Abstract   string
	Keywords   []string
	// LayerName is the layer to request when the record is added to the map.
	LayerName  string
	LayerType  ServiceType
	URL        string
	BBox       *BBox
	References []Reference
}

// Result is the envelope of a completed search. A nil *Result means no search
// has been performed yet.
type Result struct {
	NumberOfRecordsMatched  int
	NumberOfRecordsReturned int
	NextRecord              int
	Records                 []Record
}

// PageInfo is the pagination state derived from a result.
type PageInfo struct {
	// Page is the 0-based page index.
	Page      int
	PageCount int
	Start     int
	End       int
	Total     int
	// Empty marks the "no records matched" state.
	Empty bool
}

// ActivePage returns the 1-based page number for the paginator widget.
func (p PageInfo) ActivePage() int {
	return p.Page + 1
}

// Project derives pagination from result. The page index divides the raw
// start offset, so offsets must come from PageStart.
func Project(result *Result, opts SearchOptions, pageSize int) *PageInfo {
	if result == nil {
		return nil
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	start := opts.StartPosition
	total := result.NumberOfRecordsMatched
	return &PageInfo{
		Page:      start / pageSize,
		PageCount: (total + pageSize - 1) / pageSize,
		Start:     start,
		End:       start + result.NumberOfRecordsReturned - 1,
		Total:     total,
		Empty:     total == 0,
	}
}
