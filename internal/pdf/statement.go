package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"expensetracker/internal/models"
)

// Generator is an interface so handlers can be tested with a stub.
type Generator interface {
	GenerateStatement(w io.Writer, data StatementData) error
}

type StatementData struct {
	AccountName string
	Currency    string
	Month       time.Time
	Summary     models.Summary
	Expenses    []*models.Expense
	Incomes     []*models.Income
}

type StatementGenerator struct {
	appName string
}

func NewStatementGenerator(appName string) *StatementGenerator {
	if appName == "" {
		appName = "Expense Tracker"
	}
	return &StatementGenerator{appName: appName}
}

func (g *StatementGenerator) GenerateStatement(w io.Writer, data StatementData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Statement %s", data.Month.Format("2006-01")), false)
	pdf.SetAuthor(g.appName, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "MONTHLY STATEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s - %s", data.AccountName, data.Month.Format("January 2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Summary
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total income", fmt.Sprintf("%.2f %s", data.Summary.TotalIncome, data.Currency))
	g.kvLine(pdf, "Total expense", fmt.Sprintf("%.2f %s", data.Summary.TotalExpense, data.Currency))
	g.kvLine(pdf, "Balance", fmt.Sprintf("%.2f %s", data.Summary.Balance, data.Currency))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Incomes
	g.sectionTitle(pdf, "Incomes")
	if len(data.Incomes) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No incomes recorded this month.", "", 1, "L", false, 0, "")
	} else {
		g.tableHeader(pdf, "Date", "Source", "Category", "Amount")
		pdf.SetFont("Helvetica", "", 10)
		for _, in := range data.Incomes {
			g.tableRow(pdf,
				in.Date.Format("2006-01-02"),
				in.Source,
				in.Category,
				fmt.Sprintf("%.2f", in.Amount),
			)
		}
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Expenses
	g.sectionTitle(pdf, "Expenses")
	if len(data.Expenses) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No expenses recorded this month.", "", 1, "L", false, 0, "")
	} else {
		g.tableHeader(pdf, "Date", "Title", "Category", "Amount")
		pdf.SetFont("Helvetica", "", 10)
		for _, e := range data.Expenses {
			g.tableRow(pdf,
				e.Date.Format("2006-01-02"),
				e.Title,
				e.Category,
				fmt.Sprintf("%.2f", e.Amount),
			)
		}
	}

	return pdf.Output(w)
}

// ===== layout helpers =====

func (g *StatementGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(50, 6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.SetLineWidth(0.3)
	x, y := pdf.GetX(), pdf.GetY()
	pdf.Line(20, y+1, 190, y+1)
	pdf.SetXY(x, y+3)
}

func (g *StatementGenerator) tableHeader(pdf *gofpdf.Fpdf, cols ...string) {
	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{28, 72, 40, 30}
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func (g *StatementGenerator) tableRow(pdf *gofpdf.Fpdf, cells ...string) {
	widths := []float64{28, 72, 40, 30}
	for i, c := range cells {
		align := "L"
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, c, "", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
