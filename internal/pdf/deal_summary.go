package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"dealdesk/internal/lifecycle"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateDealSummary(data SummaryData) (string, error)
}

// SummaryData is everything the one-page deal summary needs.
type SummaryData struct {
	DealID         int
	Title          string
	ClientName     string
	Status         string
	Priority       string
	AnnualRevenue  float64
	GrowthAmbition float64
	CreatedAt      time.Time
	Flow           lifecycle.FlowClassification
	History        []HistoryLine
	Filename       string // имя файла (без путей); если пусто — сгенерируем
}

type HistoryLine struct {
	From      string
	To        string
	ChangedAt time.Time
}

// DealSummaryGenerator renders deal summaries under RootDir.
type DealSummaryGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // опциональный TTF; пусто — встроенная Helvetica
	fontName string
}

func NewDealSummaryGenerator(rootDir, fontPath string) *DealSummaryGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "Custom"
	}
	return &DealSummaryGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: name,
	}
}

func (g *DealSummaryGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files root: %w", err)
	}
	return filepath.Join(g.RootDir, filepath.Base(filename)), nil
}

// GenerateDealSummary writes the PDF and returns its absolute path.
func (g *DealSummaryGenerator) GenerateDealSummary(data SummaryData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("deal_summary_%d.pdf", data.DealID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	if g.FontPath != "" {
		doc.AddUTF8Font(g.fontName, "", g.FontPath)
	}
	doc.AddPage()

	doc.SetFont(g.fontName, "", 18)
	doc.CellFormat(0, 12, fmt.Sprintf("Deal #%d — %s", data.DealID, data.Title), "", 1, "L", false, 0, "")

	doc.SetFont(g.fontName, "", 11)
	doc.Ln(4)
	line := func(label, value string) {
		doc.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	line("Client:", data.ClientName)
	line("Status:", data.Status)
	line("Priority:", data.Priority)
	line("Annual revenue:", fmt.Sprintf("%.2f", data.AnnualRevenue))
	line("Growth ambition:", fmt.Sprintf("%.2f", data.GrowthAmbition))
	line("Created:", data.CreatedAt.Format("2006-01-02"))
	line("Flow:", fmt.Sprintf("%s — %s", data.Flow.FlowStatus, data.Flow.Reason))

	if len(data.History) > 0 {
		doc.Ln(6)
		doc.SetFont(g.fontName, "", 13)
		doc.CellFormat(0, 8, "Status history", "", 1, "L", false, 0, "")
		doc.SetFont(g.fontName, "", 10)
		for _, h := range data.History {
			doc.CellFormat(0, 6,
				fmt.Sprintf("%s  %s -> %s", h.ChangedAt.Format("2006-01-02 15:04"), h.From, h.To),
				"", 1, "L", false, 0, "")
		}
	}

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write deal summary pdf: %w", err)
	}
	return absPath, nil
}
