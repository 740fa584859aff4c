package feed

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Namespace prefixes used by the athletics calendar RSS feed.
const (
	eventPrefix   = "ev"
	sidearmPrefix = "s"
)

// RawRecord is one feed item after field mapping. Every field listed in
// requiredFields must be present in the source item; optional ones may be
// empty.
type RawRecord struct {
	Title   string
	Summary string
	Link    string

	Location  string
	StartDate string
	EndDate   string

	TeamLogo     string
	OpponentLogo string
	Opponent     string
	GameID       string
}

type extField struct {
	prefix string
	name   string
	set    func(*RawRecord, string)
}

var requiredFields = []extField{
	{eventPrefix, "startdate", func(r *RawRecord, v string) { r.StartDate = v }},
	{eventPrefix, "location", func(r *RawRecord, v string) { r.Location = v }},
	{sidearmPrefix, "opponent", func(r *RawRecord, v string) { r.Opponent = v }},
	{sidearmPrefix, "teamlogo", func(r *RawRecord, v string) { r.TeamLogo = v }},
	{sidearmPrefix, "opponentlogo", func(r *RawRecord, v string) { r.OpponentLogo = v }},
}

var optionalFields = []extField{
	{eventPrefix, "enddate", func(r *RawRecord, v string) { r.EndDate = v }},
	{sidearmPrefix, "gameid", func(r *RawRecord, v string) { r.GameID = v }},
}

// Decode parses an RSS document and maps each item to a RawRecord, in feed
// order. Any item missing a required field fails the whole document.
func Decode(body []byte) ([]RawRecord, error) {
	if len(body) == 0 {
		return nil, &DecodeError{Err: fmt.Errorf("empty feed body")}
	}

	doc, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	records := make([]RawRecord, 0, len(doc.Items))
	for i, item := range doc.Items {
		rec, err := recordFromItem(item)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("item %d: %w", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordFromItem(item *gofeed.Item) (RawRecord, error) {
	if item == nil {
		return RawRecord{}, fmt.Errorf("nil item")
	}
	if strings.TrimSpace(item.Link) == "" {
		return RawRecord{}, fmt.Errorf("missing link")
	}

	rec := RawRecord{
		Title:   item.Title,
		Summary: item.Description,
		Link:    strings.TrimSpace(item.Link),
	}

	for _, f := range requiredFields {
		v, ok := extValue(item.Extensions, f.prefix, f.name)
		if !ok {
			return RawRecord{}, fmt.Errorf("missing %s:%s", f.prefix, f.name)
		}
		f.set(&rec, v)
	}
	for _, f := range optionalFields {
		if v, ok := extValue(item.Extensions, f.prefix, f.name); ok {
			f.set(&rec, v)
		}
	}
	return rec, nil
}

func extValue(exts ext.Extensions, prefix, name string) (string, bool) {
	if exts == nil {
		return "", false
	}
	byName, ok := exts[prefix]
	if !ok {
		return "", false
	}
	vals, ok := byName[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0].Value), true
}
