package collector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// LocatorError reports that the target table could not be found or has
// an unexpected shape. Fatal for the run: extraction cannot proceed.
type LocatorError struct {
	Anchor string
	Reason string
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("locate table under anchor %q: %s", e.Anchor, e.Reason)
}

// Extractor pulls raw (name, value) rows from the first table that
// follows a heading anchor in document order. Column selection is
// positional over the row's cells; a post-selection shape check fails
// loudly instead of emitting garbage when the document layout drifts.
type Extractor struct {
	AnchorID    string
	NameColumn  int
	ValueColumn int
	RowLimit    int
}

// NewExtractor creates an Extractor for the given anchor and columns.
func NewExtractor(anchorID string, nameColumn, valueColumn, rowLimit int) *Extractor {
	return &Extractor{
		AnchorID:    anchorID,
		NameColumn:  nameColumn,
		ValueColumn: valueColumn,
		RowLimit:    rowLimit,
	}
}

// Extract returns at most RowLimit raw rows in document order. Header
// rows (no td cells) are skipped; the source's ordering is trusted to
// already rank by descending market capitalization.
func (e *Extractor) Extract(rawHTML string) ([]model.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, &LocatorError{Anchor: e.AnchorID, Reason: fmt.Sprintf("parse document: %v", err)}
	}

	anchor := doc.Find(fmt.Sprintf("[id=%q]", e.AnchorID)).First()
	if anchor.Length() == 0 {
		return nil, &LocatorError{Anchor: e.AnchorID, Reason: "heading anchor not found"}
	}

	tableNode := nextTable(anchor.Get(0))
	if tableNode == nil {
		return nil, &LocatorError{Anchor: e.AnchorID, Reason: "no table follows the heading"}
	}
	table := goquery.NewDocumentFromNode(tableNode)

	minCells := e.NameColumn
	if e.ValueColumn > minCells {
		minCells = e.ValueColumn
	}
	minCells++

	var rows []model.RawRow
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if len(rows) >= e.RowLimit {
			return false
		}
		cells := tr.ChildrenFiltered("td, th")
		if cells.Length() == 0 || tr.ChildrenFiltered("td").Length() == 0 {
			return true // header or spacer row
		}
		if cells.Length() < minCells {
			rowErr = &LocatorError{
				Anchor: e.AnchorID,
				Reason: fmt.Sprintf("row %d has %d cells, need at least %d for columns %d and %d",
					i, cells.Length(), minCells, e.NameColumn, e.ValueColumn),
			}
			return false
		}
		name := strings.TrimSpace(cells.Eq(e.NameColumn).Text())
		if err := checkNameCell(name, i, e.NameColumn); err != nil {
			rowErr = &LocatorError{Anchor: e.AnchorID, Reason: err.Error()}
			return false
		}
		rows = append(rows, model.RawRow{
			Name:     name,
			RawValue: strings.TrimSpace(cells.Eq(e.ValueColumn).Text()),
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, &LocatorError{Anchor: e.AnchorID, Reason: "table has no data rows"}
	}
	return rows, nil
}

// checkNameCell guards the positional column selection: the name column
// must hold non-empty, non-numeric text, otherwise the configured
// indices no longer match the document.
func checkNameCell(name string, row, col int) error {
	if name == "" {
		return fmt.Errorf("row %d: name column %d is empty", row, col)
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(name, ",", ""), 64); err == nil {
		return fmt.Errorf("row %d: name column %d holds the numeric value %q; column indices likely wrong", row, col, name)
	}
	return nil
}

// nextTable walks the document-order successors of n and returns the
// first table element, or nil when none follows.
func nextTable(n *html.Node) *html.Node {
	for n = successor(n); n != nil; n = successor(n) {
		if n.Type == html.ElementNode && n.Data == "table" {
			return n
		}
	}
	return nil
}

func successor(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}
