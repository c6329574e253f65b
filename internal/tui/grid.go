package tui

// gridTop is the first terminal row of the workload grid, below the title,
// subtitle and separator rows.
const gridTop = 3

// Slot is a terminal cell position for one workload entry.
type Slot struct {
	Row int
	Col int
}

// Place maps a window-relative index into the multi-column grid. Indices
// fill a column top to bottom before wrapping to the next column; distinct
// indices always land on distinct slots.
func Place(index, rowsPerColumn, columnWidth int) Slot {
	if rowsPerColumn < 1 {
		rowsPerColumn = 1
	}
	return Slot{
		Row: gridTop + index%rowsPerColumn,
		Col: (index / rowsPerColumn) * columnWidth,
	}
}
