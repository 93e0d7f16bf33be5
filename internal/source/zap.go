package source

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ymmah/quality-report/internal/logger"
)

// ZAPScanReport reads ZAP HTML scan reports. The source id is the report URL.
type ZAPScanReport struct {
	base
	opener *Opener
	log    logger.Logger
}

// NewZAPScanReport creates a ZAP scan report source.
func NewZAPScanReport(key, name string, opener *Opener) *ZAPScanReport {
	return &ZAPScanReport{
		base:   newBase(key, name, "ZAP Scan report", "", true),
		opener: opener,
		log:    logger.Named("zap"),
	}
}

// Alerts returns the number of alerts of the risk level, summed over reports.
func (z *ZAPScanReport) Alerts(ctx context.Context, riskLevel string, ids ...string) int {
	return sumCounts(ids, func(reportURL string) int {
		body, err := z.opener.Get(ctx, reportURL)
		if err != nil {
			warn(ctx, z.log, "cannot open zap report", z.name, reportURL, err)
			return -1
		}
		n, err := parseAlerts(body, riskLevel)
		if err != nil {
			warn(ctx, z.log, "cannot parse zap report", z.name, reportURL, err)
			return -1
		}
		return n
	})
}

// parseAlerts finds the row whose first cell names the risk level and reads
// the count from its second cell. The summary table is preferred; older
// reports only have a leading table.
func parseAlerts(body []byte, riskLevel string) (int, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	tables := findAll(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "table" })
	if len(tables) == 0 {
		return 0, fmt.Errorf("summary table could not be found")
	}
	table := tables[0]
	for _, t := range tables {
		if hasClass(t, "summary") {
			table = t
			break
		}
	}

	want := capitalize(riskLevel)
	for _, row := range findAll(table, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "tr" }) {
		cells := findAll(row, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "td" })
		if len(cells) < 2 || textOf(cells[0]) != want {
			continue
		}
		return strconv.Atoi(textOf(cells[1]))
	}
	return 0, fmt.Errorf("risk level %s could not be found", riskLevel)
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		sb.WriteString(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MetricSourceURLs implements contract.MetricSource.
func (z *ZAPScanReport) MetricSourceURLs(ids ...string) []string {
	return append([]string(nil), ids...)
}
