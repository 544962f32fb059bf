// Package export renders a roadmap's flat timeline into downloadable
// artifacts. It consumes the derived feature sequence and knows nothing
// about how the roadmap was generated or stored.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/planline/planline/pkg/models"
)

// ErrNoFeatures indicates there is nothing to export.
var ErrNoFeatures = errors.New("no timeline features to export")

// Format selects the artifact encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options carries the presentation metadata rendered alongside the
// feature rows.
type Options struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	StartDate   time.Time `json:"start_date"`
	ProjectType string    `json:"project_type,omitempty"`
}

// document is the JSON artifact shape.
type document struct {
	Options

	GeneratedAt time.Time                `json:"generated_at"`
	Features    []models.TimelineFeature `json:"features"`
}

var csvHeader = []string{
	"id", "title", "team", "priority", "status",
	"start_month", "start_date", "end_date", "duration_months",
	"phase_index", "description",
}

// Write renders the features in the requested format.
func Write(w io.Writer, format Format, features []models.TimelineFeature, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, features, opts)
	default:
		return WriteCSV(w, features, opts)
	}
}

// WriteCSV renders one row per feature, preceded by comment-free title
// rows so spreadsheet imports stay clean: metadata lives in the first
// data column of dedicated rows.
func WriteCSV(w io.Writer, features []models.TimelineFeature, opts Options) error {
	if len(features) == 0 {
		return ErrNoFeatures
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"roadmap", opts.Title, opts.Subtitle}); err != nil {
		return err
	}

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, feature := range features {
		start := monthDate(opts.StartDate, feature.StartMonth)
		end := monthDate(opts.StartDate, feature.StartMonth+feature.Duration)

		row := []string{
			feature.ID,
			feature.Title,
			string(feature.Team),
			string(feature.Priority),
			string(feature.Status),
			strconv.Itoa(feature.StartMonth),
			start,
			end,
			strconv.Itoa(feature.Duration),
			strconv.Itoa(feature.PhaseIndex),
			feature.Description,
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteJSON renders the full document with metadata and the untruncated
// feature list.
func WriteJSON(w io.Writer, features []models.TimelineFeature, opts Options) error {
	if len(features) == 0 {
		return ErrNoFeatures
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(document{
		Options:     opts,
		GeneratedAt: time.Now().UTC(),
		Features:    features,
	})
}

// monthDate resolves a month offset against the roadmap start date.
// A zero start date renders offsets only, so the column is empty.
func monthDate(start time.Time, offset int) string {
	if start.IsZero() {
		return ""
	}

	return start.AddDate(0, offset, 0).Format("2006-01")
}
