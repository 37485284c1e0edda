package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// Element ids the station page uses for its three values.
const (
	TemperatureID  = "temperature"
	DistanceID     = "distance"
	AlertMessageID = "alertMessage"
)

// ErrMissingElement is returned when a response lacks one of the three values.
var ErrMissingElement = errors.New("missing element")

// Source produces the current snapshot of a station.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// HTMLSource fetches the station's own page and pulls the values out of it.
type HTMLSource struct {
	client *resty.Client
}

// NewHTMLSource returns a source reading the page at base + "/".
func NewHTMLSource(base string) *HTMLSource {
	return &HTMLSource{client: resty.New().SetBaseURL(strings.TrimSuffix(base, "/"))}
}

// BasicAuth makes the source log in as user, for stations outside the LAN.
func (s *HTMLSource) BasicAuth(user, pwd string) *HTMLSource {
	s.client.SetBasicAuth(user, pwd)
	return s
}

func (s *HTMLSource) Fetch(ctx context.Context) (Snapshot, error) {
	body, err := get(ctx, s.client, "/")
	if err != nil {
		return Snapshot{}, err
	}
	return ParsePage(body)
}

// ParsePage extracts a snapshot from a station page without rendering it anywhere.
func ParsePage(page []byte) (Snapshot, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse page: %w", err)
	}
	ids := map[string]*html.Node{TemperatureID: nil, DistanceID: nil, AlertMessageID: nil}
	collectIDs(doc, ids)

	for _, id := range []string{TemperatureID, DistanceID, AlertMessageID} {
		if ids[id] == nil {
			return Snapshot{}, fmt.Errorf("%w: #%s", ErrMissingElement, id)
		}
	}
	return Snapshot{
		Temperature:  textContent(ids[TemperatureID]),
		Distance:     textContent(ids[DistanceID]),
		AlertMessage: textContent(ids[AlertMessageID]),
	}, nil
}

// collectIDs fills in the first element found for each wanted id.
func collectIDs(n *html.Node, want map[string]*html.Node) {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key != "id" {
				continue
			}
			if found, ok := want[a.Val]; ok && found == nil {
				want[a.Val] = n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectIDs(c, want)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// JSONSource reads the compact /snapshot endpoint instead of the whole page.
type JSONSource struct {
	client *resty.Client
}

// NewJSONSource returns a source reading base + "/snapshot".
func NewJSONSource(base string) *JSONSource {
	return &JSONSource{client: resty.New().SetBaseURL(strings.TrimSuffix(base, "/"))}
}

// BasicAuth makes the source log in as user, for stations outside the LAN.
func (s *JSONSource) BasicAuth(user, pwd string) *JSONSource {
	s.client.SetBasicAuth(user, pwd)
	return s
}

func (s *JSONSource) Fetch(ctx context.Context) (Snapshot, error) {
	body, err := get(ctx, s.client, "/snapshot")
	if err != nil {
		return Snapshot{}, err
	}
	// pointers tell a missing field apart from an empty one
	raw := struct {
		Temperature  *string `json:"temperature"`
		Distance     *string `json:"distance"`
		AlertMessage *string `json:"alertMessage"`
	}{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	switch {
	case raw.Temperature == nil:
		return Snapshot{}, fmt.Errorf("%w: %s", ErrMissingElement, TemperatureID)
	case raw.Distance == nil:
		return Snapshot{}, fmt.Errorf("%w: %s", ErrMissingElement, DistanceID)
	case raw.AlertMessage == nil:
		return Snapshot{}, fmt.Errorf("%w: %s", ErrMissingElement, AlertMessageID)
	}
	return Snapshot{Temperature: *raw.Temperature, Distance: *raw.Distance, AlertMessage: *raw.AlertMessage}, nil
}

func get(ctx context.Context, client *resty.Client, path string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("GET %s -> %s", path, resp.Status())
	}
	return resp.Body(), nil
}
