package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/zjrosen/atlas/internal/catalog"
)

const cswOutputSchema = "http://www.opengis.net/cat/csw/2.0.2"

// CSWClient queries CSW 2.0.2 catalogs with GetRecords.
type CSWClient struct {
	fetcher *Fetcher
}

func NewCSWClient(f *Fetcher) *CSWClient {
	return &CSWClient{fetcher: f}
}

// Search implements Executor.
func (c *CSWClient) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	body, err := c.fetcher.Get(ctx, "csw.GetRecords", req.URL, getRecordsParams(req), req.Auth)
	if err != nil {
		return nil, err
	}
	return parseGetRecords(body)
}

func getRecordsParams(req catalog.SearchRequest) url.Values {
	params := url.Values{
		"service":        {"CSW"},
		"version":        {"2.0.2"},
		"request":        {"GetRecords"},
		"typeNames":      {"csw:Record"},
		"resultType":     {"results"},
		"elementSetName": {"full"},
		"outputSchema":   {cswOutputSchema},
		"startPosition":  {strconv.Itoa(req.StartPosition)},
		"maxRecords":     {strconv.Itoa(req.PageSize)},
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		params.Set("constraintLanguage", "CQL_TEXT")
		params.Set("constraint_language_version", "1.1.0")
		params.Set("constraint", AnyTextConstraint(text))
	}
	return params
}

// AnyTextConstraint builds the CQL full-text filter for text.
func AnyTextConstraint(text string) string {
	escaped := strings.ReplaceAll(text, "'", "''")
	return fmt.Sprintf("AnyText like '%%%s%%'", escaped)
}

type owsExceptionReport struct {
	Exceptions []struct {
		Code string `xml:"exceptionCode,attr"`
		Text string `xml:"ExceptionText"`
	} `xml:"Exception"`
}

func (r owsExceptionReport) err(op string) error {
	if len(r.Exceptions) == 0 {
		return &Error{Code: CodeService, Op: op, Err: fmt.Errorf("exception report")}
	}
	e := r.Exceptions[0]
	return &Error{Code: CodeService, Op: op, Err: fmt.Errorf("%s: %s", e.Code, strings.TrimSpace(e.Text))}
}

type cswGetRecordsResponse struct {
	Results *struct {
		Matched  int         `xml:"numberOfRecordsMatched,attr"`
		Returned int         `xml:"numberOfRecordsReturned,attr"`
		Next     int         `xml:"nextRecord,attr"`
		Records  []cswRecord `xml:"Record"`
	} `xml:"SearchResults"`
}

type cswRecord struct {
	Identifier  string         `xml:"identifier"`
	Title       string         `xml:"title"`
	Abstract    string         `xml:"abstract"`
	Description string         `xml:"description"`
	Subjects    []string       `xml:"subject"`
	URIs        []cswURI       `xml:"URI"`
	References  []cswReference `xml:"references"`
	BBoxes      []owsBBox      `xml:"BoundingBox"`
}

type cswURI struct {
	Protocol string `xml:"protocol,attr"`
	Name     string `xml:"name,attr"`
	Value    string `xml:",chardata"`
}

type cswReference struct {
	Scheme string `xml:"scheme,attr"`
	Value  string `xml:",chardata"`
}

type owsBBox struct {
	CRS   string `xml:"crs,attr"`
	Lower string `xml:"LowerCorner"`
	Upper string `xml:"UpperCorner"`
}

func (b owsBBox) toBBox() *catalog.BBox {
	lower := strings.Fields(b.Lower)
	upper := strings.Fields(b.Upper)
	if len(lower) != 2 || len(upper) != 2 {
		return nil
	}
	var vals [4]float64
	for i, s := range []string{lower[0], lower[1], upper[0], upper[1]} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		vals[i] = v
	}
	crs := b.CRS
	if crs == "" {
		crs = "EPSG:4326"
	}
	return &catalog.BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3], CRS: crs}
}

func rootName(body []byte) (string, error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(body, &probe); err != nil {
		return "", err
	}
	return probe.XMLName.Local, nil
}

func parseGetRecords(body []byte) (*catalog.Result, error) {
	const op = "csw.GetRecords"

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
	case "GetRecordsResponse":
	default:
		return nil, &Error{Code: CodeParse, Op: op, Err: fmt.Errorf("unexpected root element %q", root)}
	}

	var resp cswGetRecordsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: err}
	}
	if resp.Results == nil {
		return nil, &Error{Code: CodeParse, Op: op, Err: fmt.Errorf("missing SearchResults")}
	}

	records := make([]catalog.Record, 0, len(resp.Results.Records))
	for _, r := range resp.Results.Records {
		records = append(records, r.toRecord())
	}
	return &catalog.Result{
		NumberOfRecordsMatched:  resp.Results.Matched,
		NumberOfRecordsReturned: resp.Results.Returned,
		NextRecord:              resp.Results.Next,
		Records:                 records,
	}, nil
}

func (r cswRecord) toRecord() catalog.Record {
	rec := catalog.Record{
		Identifier: strings.TrimSpace(r.Identifier),
		Title:      strings.TrimSpace(r.Title),
		Abstract:   strings.TrimSpace(r.Abstract),
	}
	if rec.Abstract == "" {
		rec.Abstract = strings.TrimSpace(r.Description)
	}
	for _, s := range r.Subjects {
		if s = strings.TrimSpace(s); s != "" {
			rec.Keywords = append(rec.Keywords, s)
		}
	}
	for _, u := range r.URIs {
		value := strings.TrimSpace(u.Value)
		rec.References = append(rec.References, catalog.Reference{Scheme: u.Protocol, URL: value})
		if rec.LayerName == "" && u.Name != "" && isWMSProtocol(u.Protocol) {
			rec.LayerName = u.Name
			rec.LayerType = catalog.TypeWMS
			rec.URL = stripQuery(value)
		}
	}
	for _, ref := range r.References {
		rec.References = append(rec.References, catalog.Reference{Scheme: ref.Scheme, URL: strings.TrimSpace(ref.Value)})
	}
	for _, b := range r.BBoxes {
		if bbox := b.toBBox(); bbox != nil {
			rec.BBox = bbox
			break
		}
	}
	return rec
}

func isWMSProtocol(protocol string) bool {
	return strings.Contains(strings.ToUpper(protocol), "WMS")
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
