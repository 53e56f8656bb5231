package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
)

type shortageRecord struct {
	Job         string `xml:"JobMtl_JobNum"`
	Required    string `xml:"JobMtl_RequiredQty"`
	Issued      string `xml:"JobMtl_IssuedQty"`
	Part        string `xml:"JobMtl_PartNum"`
	Description string `xml:"Part_PartDescription"`
}

// Shortages reads the material-shortage XML. Every Results element
// anywhere in the document yields one line; a missing part number falls
// back to "Unknown".
func (r *Reader) Shortages(ctx context.Context, path string) []ShortageLine {
	file, err := os.Open(path)
	if err != nil {
		r.logFailure(ctx, KeyMaterialShortage, path, err)
		return nil
	}
	defer file.Close()

	var lines []ShortageLine
	decoder := xml.NewDecoder(file)
	for {
		token, err := decoder.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.logFailure(ctx, KeyMaterialShortage, path, err)
			}
			break
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Results" {
			continue
		}

		var record shortageRecord
		if err := decoder.DecodeElement(&record, &start); err != nil {
			r.logFailure(ctx, KeyMaterialShortage, path, err)
			break
		}
		job := strings.TrimSpace(record.Job)
		if job == "" {
			continue
		}
		part := strings.TrimSpace(record.Part)
		if part == "" {
			part = "Unknown"
		}
		lines = append(lines, ShortageLine{
			Job:         job,
			Part:        part,
			Description: strings.TrimSpace(record.Description),
			RequiredQty: parseDecimal(record.Required),
			IssuedQty:   parseDecimal(record.Issued),
		})
	}
	return lines
}

// ShortJobs collapses shortage lines into the set of jobs with at least
// one short line.
func ShortJobs(lines []ShortageLine) map[string]struct{} {
	jobs := make(map[string]struct{})
	for _, line := range lines {
		if line.Short() {
			jobs[line.Job] = struct{}{}
		}
	}
	return jobs
}
