package reputation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/identity"
)

const (
	// Postings with no company name group under the first profilePrefixLen
	// characters of their profile text.
	profilePrefixLen = 50

	// Any group with at least one fraudulent posting gets this flat penalty
	// on top of its fake-ratio score.
	fraudPenalty = 20

	DataSourceDataset = "historic-postings-dataset"
)

// DatasetRow is one historical job posting from the labeled dataset.
type DatasetRow struct {
	Profile    string
	Name       string
	Fraudulent bool
}

type groupStats struct {
	total int
	fake  int
	names []string
}

// Build folds dataset rows into the reputation table. Grouping key is the
// lower-cased company name when one exists anywhere in the group, otherwise
// the lower-cased profile-text prefix.
func Build(rows []DatasetRow) *Table {
	groups := map[string]*groupStats{}
	order := []string{}

	for _, r := range rows {
		key := prefixKey(r.Profile)
		g, ok := groups[key]
		if !ok {
			g = &groupStats{}
			groups[key] = g
			order = append(order, key)
		}
		g.total++
		if r.Fraudulent {
			g.fake++
		}
		if name := strings.TrimSpace(r.Name); name != "" && !contains(g.names, name) {
			g.names = append(g.names, name)
		}
	}

	records := make(map[string]domain.ReputationRecord, len(groups))
	for _, key := range order {
		g := groups[key]

		fakeRatio := float64(g.fake) / float64(g.total)
		score := int(math.Round(fakeRatio * 100))
		if score > 0 {
			score += fraudPenalty
		}
		if score > 100 {
			score = 100
		}

		display := key
		if len(g.names) > 0 {
			display = g.names[0]
		}

		rec := domain.ReputationRecord{
			Name:           display,
			Score:          score,
			ResponseCount:  g.total - g.fake,
			Recommendation: recommendationFor(score),
			DataSource:     DataSourceDataset,
		}
		records[identity.NormalizeKey(display)] = rec
	}
	return NewTable(records)
}

func recommendationFor(score int) string {
	if score > 50 {
		return "Avoid (High Risk / Energy Sink)"
	}
	return "Apply with Confidence"
}

func prefixKey(profile string) string {
	p := identity.NormalizeKey(profile)
	if p == "" {
		return "unknown"
	}
	if len(p) > profilePrefixLen {
		p = p[:profilePrefixLen]
	}
	return p
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// BuildFromCSV reads the labeled postings dataset. Columns are located by
// header name so extra dataset columns are ignored.
func BuildFromCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	profileIdx, ok := col["company_profile"]
	if !ok {
		return nil, errors.New("dataset missing company_profile column")
	}
	fraudIdx, ok := col["fraudulent"]
	if !ok {
		return nil, errors.New("dataset missing fraudulent column")
	}
	nameIdx, hasName := col["company_name"]

	var rows []DatasetRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		row := DatasetRow{}
		if profileIdx < len(rec) {
			row.Profile = rec[profileIdx]
		}
		if hasName && nameIdx < len(rec) {
			row.Name = rec[nameIdx]
		}
		if fraudIdx < len(rec) {
			row.Fraudulent = strings.TrimSpace(rec[fraudIdx]) == "1"
		}
		rows = append(rows, row)
	}
	return Build(rows), nil
}
