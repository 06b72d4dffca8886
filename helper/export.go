package helper

import (
	"fmt"

	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/xuri/excelize/v2"
)

const (
	GridSheet = "Occupancy"
	ListSheet = "Bookings"
)

var listHeaders = []string{"Code", "Room", "Type", "Guest", "Email", "Check-in", "Check-out", "Nights", "Guests", "Total", "Status"}

// BuildOccupancyWorkbook lays out rooms against the dates from..to. Each cell
// lists the bookings holding the room that day; the second sheet lists every
// booking in range.
func BuildOccupancyWorkbook(rooms []model.Room, bookings []model.Booking, from, to utils.CustomDate) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(GridSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(ListSheet); err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.DeleteSheet("Sheet1")

	styles, err := newExportStyles(f)
	if err != nil {
		return nil, err
	}

	f.SetCellValue(GridSheet, "A1", fmt.Sprintf("Period: %s - %s", from.String(), to.String()))
	f.SetCellStyle(GridSheet, "A1", "A1", styles.title)
	f.SetCellValue(GridSheet, "A2", "Room")
	f.SetCellStyle(GridSheet, "A2", "A2", styles.header)

	dateCols := map[string]int{}
	col := 2
	for d := from; !d.After(to); d = d.AddDays(1) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		f.SetCellValue(GridSheet, cell, d.Format("02.01"))
		f.SetCellStyle(GridSheet, cell, cell, styles.header)
		dateCols[d.String()] = col
		col++
	}
	lastCol, _ := excelize.ColumnNumberToName(col - 1)
	if col > 2 {
		f.MergeCell(GridSheet, "A1", lastCol+"1")
	}

	roomRows := map[uint]int{}
	for i, room := range rooms {
		row := i + 3
		roomRows[room.ID] = row
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(GridSheet, cell, fmt.Sprintf("%s (%s, %d)", room.RoomNumber, room.Type, room.Capacity))
		f.SetCellStyle(GridSheet, cell, cell, styles.room)

		first, _ := excelize.CoordinatesToCellName(2, row)
		last, _ := excelize.CoordinatesToCellName(col-1, row)
		if col > 2 {
			f.SetCellStyle(GridSheet, first, last, styles.free)
		}
	}

	cells := map[string][]model.Booking{}
	for _, b := range bookings {
		row, ok := roomRows[b.RoomId]
		if !ok || !b.Status.IsBlocking() {
			continue
		}
		for d := b.CheckInDate; !d.After(b.CheckOutDate); d = d.AddDays(1) {
			c, ok := dateCols[d.String()]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c, row)
			cells[cell] = append(cells[cell], b)
		}
	}
	for cell, held := range cells {
		value := ""
		pending := false
		for _, b := range held {
			if value != "" {
				value += "\n"
			}
			value += fmt.Sprintf("%s %s", b.Code, b.Status)
			if b.Status == model.BookingPending {
				pending = true
			}
		}
		f.SetCellValue(GridSheet, cell, value)
		if pending {
			f.SetCellStyle(GridSheet, cell, cell, styles.pending)
		} else {
			f.SetCellStyle(GridSheet, cell, cell, styles.confirmed)
		}
	}

	f.SetColWidth(GridSheet, "A", "A", 22)
	if col > 2 {
		f.SetColWidth(GridSheet, "B", lastCol, 16)
	}

	if err := writeBookingList(f, bookings, styles.header); err != nil {
		return nil, err
	}
	return f, nil
}

func writeBookingList(f *excelize.File, bookings []model.Booking, header int) error {
	for i, h := range listHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ListSheet, cell, h)
		f.SetCellStyle(ListSheet, cell, cell, header)
	}

	for i, b := range bookings {
		row := []any{
			b.Code, "", "", "", "",
			b.CheckInDate.String(), b.CheckOutDate.String(),
			b.CheckInDate.Nights(b.CheckOutDate), b.NumberOfGuests, b.TotalPrice, string(b.Status),
		}
		if b.Room != nil {
			row[1] = b.Room.RoomNumber
			row[2] = string(b.Room.Type)
		}
		if b.User != nil {
			row[3] = b.User.Name
			row[4] = b.User.Email
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ListSheet, cell, &row); err != nil {
			return err
		}
	}
	f.SetColWidth(ListSheet, "A", "K", 14)
	f.SetColWidth(ListSheet, "D", "E", 24)
	return nil
}

type exportStyles struct {
	title, header, room, free, pending, confirmed int
}

func newExportStyles(f *excelize.File) (exportStyles, error) {
	var s exportStyles
	var err error
	cellAlign := &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.room, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}
	if s.free, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
		Alignment: cellAlign,
	}); err != nil {
		return s, err
	}
	if s.pending, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
		Alignment: cellAlign,
	}); err != nil {
		return s, err
	}
	if s.confirmed, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: cellAlign,
	}); err != nil {
		return s, err
	}
	return s, nil
}
