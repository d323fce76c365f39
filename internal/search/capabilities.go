package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/zjrosen/atlas/internal/catalog"
)

// CapabilitiesClient searches the layers advertised by a WMS or WMTS
// GetCapabilities document. Filtering and paging happen locally.
type CapabilitiesClient struct {
	fetcher *Fetcher
	kind    catalog.ServiceType
}

func NewWMSClient(f *Fetcher) *CapabilitiesClient {
	return &CapabilitiesClient{fetcher: f, kind: catalog.TypeWMS}
}

func NewWMTSClient(f *Fetcher) *CapabilitiesClient {
	return &CapabilitiesClient{fetcher: f, kind: catalog.TypeWMTS}
}

// Search implements Executor.
func (c *CapabilitiesClient) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	op := string(c.kind) + ".GetCapabilities"
	params := url.Values{"request": {"GetCapabilities"}}
	switch c.kind {
	case catalog.TypeWMTS:
		params.Set("service", "WMTS")
		params.Set("version", "1.0.0")
	default:
		params.Set("service", "WMS")
		params.Set("version", "1.3.0")
	}

	body, err := c.fetcher.Get(ctx, op, req.URL, params, req.Auth)
	if err != nil {
		return nil, err
	}

	var layers []catalog.Record
	if c.kind == catalog.TypeWMTS {
		layers, err = parseWMTSCapabilities(body, stripQuery(req.URL))
	} else {
		layers, err = parseWMSCapabilities(body, stripQuery(req.URL))
	}
	if err != nil {
		return nil, err
	}

	return Paginate(FilterRecords(layers, req.Text), req.StartPosition, req.PageSize), nil
}

// FilterRecords keeps records whose title, layer name, abstract or keywords
// contain text, ignoring case. Empty text keeps everything.
func FilterRecords(records []catalog.Record, text string) []catalog.Record {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return records
	}
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if recordMatches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func recordMatches(r catalog.Record, needle string) bool {
	for _, field := range []string{r.Title, r.LayerName, r.Abstract} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

// Paginate slices records into the envelope a CSW server would return for
// the same 1-based start and page size.
func Paginate(records []catalog.Record, start, pageSize int) *catalog.Result {
	if start < 1 {
		start = 1
	}
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	total := len(records)
	from := min(start-1, total)
	to := min(from+pageSize, total)

	page := make([]catalog.Record, to-from)
	copy(page, records[from:to])

	next := 0
	if to < total {
		next = to + 1
	}
	return &catalog.Result{
		NumberOfRecordsMatched:  total,
		NumberOfRecordsReturned: len(page),
		NextRecord:              next,
		Records:                 page,
	}
}

type wmsCapabilities struct {
	Layer *wmsLayer `xml:"Capability>Layer"`
}

type wmsLayer struct {
	Name     string   `xml:"Name"`
	Title    string   `xml:"Title"`
	Abstract string   `xml:"Abstract"`
	Keywords []string `xml:"KeywordList>Keyword"`
	LatLon   *struct {
		MinX float64 `xml:"minx,attr"`
		MinY float64 `xml:"miny,attr"`
		MaxX float64 `xml:"maxx,attr"`
		MaxY float64 `xml:"maxy,attr"`
	} `xml:"LatLonBoundingBox"`
	Geographic *struct {
		West  float64 `xml:"westBoundLongitude"`
		East  float64 `xml:"eastBoundLongitude"`
		South float64 `xml:"southBoundLatitude"`
		North float64 `xml:"northBoundLatitude"`
	} `xml:"EX_GeographicBoundingBox"`
	Layers []wmsLayer `xml:"Layer"`
}

func (l wmsLayer) bbox(inherited *catalog.BBox) *catalog.BBox {
	switch {
	case l.Geographic != nil:
		g := l.Geographic
		return &catalog.BBox{MinX: g.West, MinY: g.South, MaxX: g.East, MaxY: g.North, CRS: "EPSG:4326"}
	case l.LatLon != nil:
		b := l.LatLon
		return &catalog.BBox{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY, CRS: "EPSG:4326"}
	default:
		return inherited
	}
}

func parseWMSCapabilities(body []byte, endpoint string) ([]catalog.Record, error) {
	const op = "wms.GetCapabilities"

	root, err := rootName(body)
	if err != nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: err}
	}
	switch root {
	case "ServiceExceptionReport", "ExceptionReport":
		return nil, &Error{Code: CodeService, Op: op, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	case "WMS_Capabilities", "WMT_MS_Capabilities":
	default:
		return nil, &Error{Code: CodeParse, Op: op, Err: fmt.Errorf("unexpected root element %q", root)}
	}

	var caps wmsCapabilities
	if err := xml.Unmarshal(body, &caps); err != nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: err}
	}
	if caps.Layer == nil {
		return nil, nil
	}

	var out []catalog.Record
	var walk func(l wmsLayer, inherited *catalog.BBox)
	walk = func(l wmsLayer, inherited *catalog.BBox) {
		bbox := l.bbox(inherited)
		if name := strings.TrimSpace(l.Name); name != "" {
			title := strings.TrimSpace(l.Title)
			if title == "" {
				title = name
			}
			out = append(out, catalog.Record{
				Identifier: name,
				Title:      title,
				Abstract:   strings.TrimSpace(l.Abstract),
				Keywords:   trimAll(l.Keywords),
				LayerName:  name,
				LayerType:  catalog.TypeWMS,
				URL:        endpoint,
				BBox:       bbox,
				References: []catalog.Reference{{Scheme: "OGC:WMS", URL: endpoint}},
			})
		}
		for _, child := range l.Layers {
			walk(child, bbox)
		}
	}
	walk(*caps.Layer, nil)
	return out, nil
}

type wmtsCapabilities struct {
	Layers []struct {
		Identifier string   `xml:"Identifier"`
		Title      string   `xml:"Title"`
		Abstract   string   `xml:"Abstract"`
		Keywords   []string `xml:"Keywords>Keyword"`
		WGS84      *owsBBox `xml:"WGS84BoundingBox"`
	} `xml:"Contents>Layer"`
}

func parseWMTSCapabilities(body []byte, endpoint string) ([]catalog.Record, error) {
	const op = "wmts.GetCapabilities"

	root, err := rootName(body)
	if err != nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: err}
	}
	switch root {
	case "ExceptionReport":
		var report owsExceptionReport
		if err := xml.Unmarshal(body, &report); err != nil {
			return nil, &Error{Code: CodeParse, Op: op, Err: err}
		}
		return nil, report.err(op)
	case "Capabilities":
	default:
		return nil, &Error{Code: CodeParse, Op: op, Err: fmt.Errorf("unexpected root element %q", root)}
	}

	var caps wmtsCapabilities
	if err := xml.Unmarshal(body, &caps); err != nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: err}
	}

	out := make([]catalog.Record, 0, len(caps.Layers))
	for _, l := range caps.Layers {
		id := strings.TrimSpace(l.Identifier)
		if id == "" {
			continue
		}
		title := strings.TrimSpace(l.Title)
		if title == "" {
			title = id
		}
		rec := catalog.Record{
			Identifier: id,
			Title:      title,
			Abstract:   strings.TrimSpace(l.Abstract),
			Keywords:   trimAll(l.Keywords),
			LayerName:  id,
			LayerType:  catalog.TypeWMTS,
			URL:        endpoint,
			References: []catalog.Reference{{Scheme: "OGC:WMTS", URL: endpoint}},
		}
		if l.WGS84 != nil {
			b := *l.WGS84
			b.CRS = "EPSG:4326"
			rec.BBox = b.toBBox()
		}
		out = append(out, rec)
	}
	return out, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
