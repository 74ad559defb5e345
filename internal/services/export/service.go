package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
)

// Service renders briefing artifacts (PDF, slide deck, chart PNGs) into the
// downloads directory where the HTTP server serves them.
type Service struct {
	config common.ExportConfig
	logger arbor.ILogger
}

func NewService(config common.ExportConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger.WithPrefix("export"),
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slug makes a filesystem and URL safe name fragment.
func slug(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "company"
	}
	return s
}

// PublicURL maps an artifact path to its served URL.
func (s *Service) PublicURL(path string) string {
	return strings.TrimSuffix(s.config.PublicBase, "/") + "/" + filepath.Base(path)
}

func (s *Service) artifactPath(name string) (string, error) {
	if err := os.MkdirAll(s.config.DownloadsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create downloads dir: %w", err)
	}
	return filepath.Join(s.config.DownloadsDir, name), nil
}

// WritePDF renders the summary markdown as a portrait A4 briefing.
func (s *Service) WritePDF(companyName, summary string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s Research Briefing", companyName), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if err := renderMarkdown(pdf, summary); err != nil {
		return "", fmt.Errorf("failed to render briefing: %w", err)
	}

	path, err := s.artifactPath(slug(companyName) + "-briefing.pdf")
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("Briefing PDF written")
	return path, nil
}

// WriteDeck renders the analysis as a landscape A4 slide deck: title slide,
// summary, one slide per SWOT category, trends, risks, and timeline.
func (s *Service) WriteDeck(companyName string, analysis models.AnalysisResult) (string, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	titleSlide(pdf, companyName)
	textSlide(pdf, "Executive Summary", analysis.Summary)

	for _, category := range []string{
		models.SWOTStrengths, models.SWOTWeaknesses, models.SWOTOpportunities, models.SWOTThreats,
	} {
		bulletSlide(pdf, category, analysis.SWOT[category])
	}

	if len(analysis.Trends) > 0 {
		bulletSlide(pdf, "Trends", analysis.Trends)
	}

	for _, category := range []string{models.CategoryRedFlags, models.CategoryOpportunities} {
		var lines []string
		for _, item := range analysis.Risks[category] {
			lines = append(lines, item.Text)
		}
		bulletSlide(pdf, category, lines)
	}

	if len(analysis.Timeline) > 0 {
		var lines []string
		for _, event := range analysis.Timeline {
			lines = append(lines, event.Description)
		}
		bulletSlide(pdf, "Timeline", lines)
	}

	path, err := s.artifactPath(slug(companyName) + "-deck.pdf")
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write deck: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("Slide deck written")
	return path, nil
}

// WriteCharts writes chart PNGs next to the other artifacts. A chart that
// fails to write is skipped, not fatal.
func (s *Service) WriteCharts(companyName string, charts []models.Chart) []string {
	var paths []string
	for _, chart := range charts {
		name := fmt.Sprintf("%s-%s.png", slug(companyName), slug(chart.Title))
		path, err := s.artifactPath(name)
		if err != nil {
			s.logger.Warn().Str("chart", chart.Title).Err(err).Msg("Chart path unavailable")
			continue
		}
		if err := os.WriteFile(path, chart.PNG, 0o644); err != nil {
			s.logger.Warn().Str("chart", chart.Title).Err(err).Msg("Chart write failed")
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func titleSlide(pdf *fpdf.Fpdf, companyName string) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 28)
	pdf.SetY(80)
	pdf.CellFormat(0, 14, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(0, 10, "Company Research Briefing", "", 1, "C", false, 0, "")
}

func textSlide(pdf *fpdf.Fpdf, title, body string) {
	pdf.AddPage()
	slideHeader(pdf, title)
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, body, "", "L", false)
}

func bulletSlide(pdf *fpdf.Fpdf, title string, lines []string) {
	pdf.AddPage()
	slideHeader(pdf, title)
	pdf.SetFont("Arial", "", 11)
	if len(lines) == 0 {
		pdf.MultiCell(0, 6, "Nothing notable found.", "", "L", false)
		return
	}
	for _, line := range lines {
		pdf.MultiCell(0, 6, "- "+line, "", "L", false)
		pdf.Ln(1)
	}
}

func slideHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	pdf.Line(20, pdf.GetY(), 277, pdf.GetY())
	pdf.Ln(6)
}
