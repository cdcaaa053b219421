// Package handover renders a project into a self-contained HTML document that
// can be handed to the client.
package handover

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rohits-web03/ledger/internal/models"
)

const (
	NoOverview     = "No overview provided."
	NoRequirements = "No requirements provided."

	// ContentType of the rendered document.
	ContentType = "text/html; charset=utf-8"
)

//go:embed handover.html.tmpl
var documentTemplate string

var tmpl = template.Must(template.New("handover").
	Funcs(template.FuncMap{"hours": FormatHours}).
	Parse(documentTemplate))

type view struct {
	Date         string
	Name         string
	Client       string
	Overview     string
	Requirements string
	Todos        []models.Todo
	Hours        []models.HoursEntry
	Total        float64
	Billing      string
	Scope        string
}

// Render writes the handover document for d. Output depends only on d and
// the calendar date of generatedAt.
func Render(w io.Writer, d *models.ProjectDetail, generatedAt time.Time) error {
	if d == nil {
		return fmt.Errorf("handover: nil project")
	}

	v := view{
		Date:         generatedAt.Format("2006-01-02"),
		Name:         d.Name,
		Client:       d.ClientName,
		Overview:     orDefault(d.SectionContent(models.SectionOverview), NoOverview),
		Requirements: orDefault(d.SectionContent(models.SectionRequirements), NoRequirements),
		Todos:        d.Todos,
		Hours:        d.Hours,
		Total:        d.TotalHours(),
		Billing:      d.SectionContent(models.SectionBilling),
		Scope:        d.SectionContent(models.SectionScope),
	}
	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("handover: render %q: %w", d.Name, err)
	}
	return nil
}

// FormatHours prints a duration the shortest way that round-trips, e.g. "1.5h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// Filename suggests a download name: the project name folded to lowercase
// ASCII, with every other run of characters collapsed to an underscore.
func Filename(projectName string) string {
	return Slug(projectName) + "_handover.html"
}

func Slug(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			if gap && b.Len() > 0 {
				b.WriteByte('_')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
