package models

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportPurchaseOrderExcel renders one order as a spreadsheet: a header block
// followed by the item lines, free issues flagged in their own column.
func ExportPurchaseOrderExcel(ctx context.Context, id int) (*excelize.File, error) {
	order, err := GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "PO Number")
	f.SetCellValue(sheet, "B1", order.PoNumber)
	f.SetCellValue(sheet, "A2", "Date")
	f.SetCellValue(sheet, "B2", order.Date.Format("2006-01-02"))
	if order.User != nil {
		f.SetCellValue(sheet, "A3", "Distributor")
		f.SetCellValue(sheet, "B3", order.User.Name)
	}
	if order.Territory != nil {
		f.SetCellValue(sheet, "A4", "Territory")
		f.SetCellValue(sheet, "B4", order.Territory.Name)
	}

	headings := []string{"SKU Code", "Quantity", "Unit Price", "Discount %", "Discounted Price", "Total", "Free Issue"}
	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		f.SetCellValue(sheet, cell, h)
	}

	row := 7
	for _, item := range order.Items {
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), item.SkuCode)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), item.Quantity)
		if item.IsFreeIssue {
			f.SetCellValue(sheet, "G"+fmt.Sprint(row), "Yes")
		} else {
			f.SetCellValue(sheet, "C"+fmt.Sprint(row), item.UnitPrice.InexactFloat64())
			f.SetCellValue(sheet, "D"+fmt.Sprint(row), item.Discount.InexactFloat64())
			f.SetCellValue(sheet, "E"+fmt.Sprint(row), item.DiscountedPrice.InexactFloat64())
			f.SetCellValue(sheet, "F"+fmt.Sprint(row), item.TotalPrice.InexactFloat64())
			f.SetCellValue(sheet, "G"+fmt.Sprint(row), "No")
		}
		row++
	}

	f.SetCellValue(sheet, "A"+fmt.Sprint(row+1), "Total Amount")
	f.SetCellValue(sheet, "F"+fmt.Sprint(row+1), order.TotalAmount.InexactFloat64())

	return f, nil
}
