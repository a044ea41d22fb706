// Package export renders the active ledger as an .xlsx workbook with one
// sheet of expenses and one of payments.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
)

const (
	ExpensesSheet = "Expenses"
	PaymentsSheet = "Payments"

	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	expenseHeaders = []string{"Date", "Description", "Member", "Amount", "Cleared", "Remaining", "Status", "Last Paid By", "Last Paid At"}
	paymentHeaders = []string{"Expense", "Description", "Paid By", "Amount", "Timestamp"}
)

// Source is the read side of the ledger a report needs.
type Source interface {
	ListActive(ctx context.Context) ([]*models.Expense, error)
	HistoryOf(ctx context.Context, expenseID string) ([]*models.PaymentHistory, error)
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
}

// Workbook builds the report. Amounts are written as two-decimal strings so
// the sheet shows exactly what the ledger holds.
func Workbook(ctx context.Context, src Source) (*excelize.File, error) {
	expenses, err := src.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	names := &memberNames{src: src, cache: make(map[string]string)}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(PaymentsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	writeHeaders(f, ExpensesSheet, expenseHeaders)
	writeHeaders(f, PaymentsSheet, paymentHeaders)

	paymentRow := 2
	for i, e := range expenses {
		row := i + 2
		status := "open"
		if e.Cleared {
			status = "cleared"
		}
		lastPaidAt := ""
		if !e.LastClearedAt.IsZero() {
			lastPaidAt = e.LastClearedAt.Format(time.RFC3339)
		}
		values := []any{
			e.Date.Format(models.DateLayout),
			e.Description,
			names.get(ctx, e.MemberID),
			money.Format(e.Amount),
			money.Format(e.ClearedAmount),
			money.Format(e.RemainingAmount),
			status,
			names.get(ctx, e.LastClearedBy),
			lastPaidAt,
		}
		if err := writeRow(f, ExpensesSheet, row, values); err != nil {
			f.Close()
			return nil, err
		}

		history, err := src.HistoryOf(ctx, e.ID)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to list history for expense %s: %w", e.ID, err)
		}
		for _, h := range history {
			values := []any{
				e.ID,
				e.Description,
				names.get(ctx, h.ClearedBy),
				money.Format(h.Amount),
				h.Timestamp.Format(time.RFC3339),
			}
			if err := writeRow(f, PaymentsSheet, paymentRow, values); err != nil {
				f.Close()
				return nil, err
			}
			paymentRow++
		}
	}

	return f, nil
}

// Handler serves the workbook as an attachment.
func Handler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := Workbook(r.Context(), src)
		if err != nil {
			slog.Error("Export failed", "error", err)
			http.Error(w, "failed to build export", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		fileName := fmt.Sprintf("roomledger_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if err := f.Write(w); err != nil {
			slog.Error("Failed to write export", "error", err)
		}
	}
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// memberNames resolves member IDs to names once per report. Unknown or
// empty IDs render as-is.
type memberNames struct {
	src   Source
	cache map[string]string
}

func (n *memberNames) get(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := n.cache[id]; ok {
		return name
	}
	name := id
	if m, err := n.src.GetMember(ctx, id); err == nil {
		name = m.Name
	}
	n.cache[id] = name
	return name
}
