package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

// tableCell is one grid slot after row/row-group flattening.
type tableCell struct {
	ref      boxtree.Ref
	row, col int
	rowSpan  int
	colSpan  int
}

// LayoutTable lays out a table: flattens row-groups/rows into a grid,
// resolves border-collapse edges, distributes column widths from cell
// content, stacks row heights, and places each cell's content box.
func LayoutTable(ctx *Context, ref boxtree.Ref, cb ContainingBlock) {
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	resolveBoxModel(b, cb.Width)
	b.Geometry.X = cb.X + b.BoxModel.MarginLeft
	b.Geometry.Y = cb.Y + b.BoxModel.MarginTop

	contentWidthRef := boxtree.ClampNonNegative(cb.Width - b.BoxModel.MarginLeft - b.BoxModel.MarginRight -
		b.BoxModel.BorderLeft - b.BoxModel.BorderRight - b.BoxModel.PaddingLeft - b.BoxModel.PaddingRight)
	tableWidth := resolveWidth(b, cb.Width, contentWidthRef)
	b.Geometry.ContentWidth = tableWidth

	collapse := b.Style.BorderModel == style.BorderCollapse
	spacing := 0.0
	if !collapse {
		spacing = b.Style.Border.Top.Width.ResolveOr(0, style.AutoZero, 0)
	}

	rows := flattenRows(ctx.Arena, ref)
	cells := assignGrid(ctx.Arena, rows)
	colCount := maxCol(cells)
	if colCount == 0 {
		ctx.Arena.FinalizeBoxModel(ref)
		return
	}
	if collapse {
		collapseBorders(ctx.Arena, cells)
	}

	colWidths := measureColumns(ctx, cells, colCount, tableWidth, spacing)
	rowHeights := make([]float64, len(rows))

	contentOriginX := b.Geometry.X + b.BoxModel.BorderLeft + b.BoxModel.PaddingLeft
	contentOriginY := b.Geometry.Y + b.BoxModel.BorderTop + b.BoxModel.PaddingTop

	colOffsets := make([]float64, colCount+1)
	x := spacing
	for c := 0; c < colCount; c++ {
		colOffsets[c] = x
		x += colWidths[c] + spacing
	}
	colOffsets[colCount] = x

	// First pass: lay out each cell at its column width to learn content
	// height, tracking the tallest cell per row.
	for _, c := range cells {
		width := spanWidth(colWidths, c.col, c.colSpan, spacing)
		cellCB := ContainingBlock{Width: width}
		Layout(ctx, c.ref, cellCB, nil)
		cb := ctx.Arena.Get(c.ref)
		h := cb.Geometry.MarginBoxHeight
		if c.rowSpan <= 1 {
			if h > rowHeights[c.row] {
				rowHeights[c.row] = h
			}
		}
	}

	rowOffsets := make([]float64, len(rows)+1)
	y := spacing
	for r := range rows {
		rowOffsets[r] = y
		y += rowHeights[r] + spacing
	}
	rowOffsets[len(rows)] = y

	// Second pass: place cells at their final grid position, re-laying out
	// to the spanned width/height so row/col-span cells fill their box.
	for _, c := range cells {
		width := spanWidth(colWidths, c.col, c.colSpan, spacing)
		height := spanWidth(rowHeights, c.row, c.rowSpan, spacing)
		cellCB := ContainingBlock{
			X: contentOriginX + colOffsets[c.col],
			Y: contentOriginY + rowOffsets[c.row],
			Width: width, Height: height,
		}
		Layout(ctx, c.ref, cellCB, nil)
	}

	if !b.Style.Height.IsAuto() {
		b.Geometry.ContentHeight = b.Style.Height.ResolveOr(cb.Height, style.AutoZero, rowOffsets[len(rows)])
	} else {
		b.Geometry.ContentHeight = rowOffsets[len(rows)]
	}
	ctx.Arena.FinalizeBoxModel(ref)
}

// flattenRows walks table > (row-group | row) into a flat list of row box
// refs, skipping row-groups as grid participants but keeping their rows
// (row-groups are transparent to the grid).
func flattenRows(arena *boxtree.Arena, tableRef boxtree.Ref) []boxtree.Ref {
	var rows []boxtree.Ref
	table := arena.Get(tableRef)
	if table == nil {
		return nil
	}
	var walk func(ref boxtree.Ref)
	walk = func(ref boxtree.Ref) {
		b := arena.Get(ref)
		if b == nil {
			return
		}
		switch b.Style.Display {
		case style.DisplayTableRow:
			rows = append(rows, ref)
		case style.DisplayTableRowGroup, style.DisplayTableHeaderGroup, style.DisplayTableFooterGroup:
			for _, c := range b.Children {
				walk(c)
			}
		}
	}
	for _, c := range table.Children {
		walk(c)
	}
	return rows
}

// assignGrid resolves each cell's (row, col) slot honoring rowspan/colspan
// and the first-fit placement rule.
func assignGrid(arena *boxtree.Arena, rows []boxtree.Ref) []tableCell {
	occupied := map[[2]int]bool{}
	var cells []tableCell
	for r, rowRef := range rows {
		row := arena.Get(rowRef)
		if row == nil {
			continue
		}
		col := 0
		for _, cellRef := range row.Children {
			cellBox := arena.Get(cellRef)
			if cellBox == nil || cellBox.Style.Display != style.DisplayTableCell {
				continue
			}
			for occupied[[2]int{r, col}] {
				col++
			}
			rowSpan, colSpan := cellBox.RowSpan, cellBox.ColSpan
			if rowSpan < 1 {
				rowSpan = 1
			}
			if colSpan < 1 {
				colSpan = 1
			}
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}
			cells = append(cells, tableCell{ref: cellRef, row: r, col: col, rowSpan: rowSpan, colSpan: colSpan})
			col += colSpan
		}
	}
	return cells
}

// collapseBorders resolves border-collapse: for every pair of cells sharing
// an edge, the shared border becomes the wider of the two and the redundant
// side is cleared, so the edge paints once at its full width.
func collapseBorders(arena *boxtree.Arena, cells []tableCell) {
	type slot struct{ row, col int }
	byTopLeft := make(map[slot]*tableCell, len(cells))
	for i := range cells {
		c := &cells[i]
		byTopLeft[slot{c.row, c.col}] = c
	}
	widthOf := func(l style.Length) float64 { return l.ResolveOr(0, style.AutoZero, 0) }

	for i := range cells {
		c := &cells[i]
		cb := arena.Get(c.ref)
		if cb == nil {
			continue
		}
		// Right neighbor: shared vertical edge.
		if n, ok := byTopLeft[slot{c.row, c.col + c.colSpan}]; ok {
			nb := arena.Get(n.ref)
			if nb != nil {
				right := widthOf(cb.Style.Border.Right.Width)
				left := widthOf(nb.Style.Border.Left.Width)
				if left > right {
					cb.Style.Border.Right = nb.Style.Border.Left
				}
				nb.Style.Border.Left.Width = style.Zero
			}
		}
		// Below neighbor: shared horizontal edge.
		if n, ok := byTopLeft[slot{c.row + c.rowSpan, c.col}]; ok {
			nb := arena.Get(n.ref)
			if nb != nil {
				bottom := widthOf(cb.Style.Border.Bottom.Width)
				top := widthOf(nb.Style.Border.Top.Width)
				if top > bottom {
					cb.Style.Border.Bottom = nb.Style.Border.Top
				}
				nb.Style.Border.Top.Width = style.Zero
			}
		}
	}
}

func maxCol(cells []tableCell) int {
	max := 0
	for _, c := range cells {
		if end := c.col + c.colSpan; end > max {
			max = end
		}
	}
	return max
}

// measureColumns derives each column's intrinsic width (widest descendant
// inline run plus the cell's horizontal non-content), then distributes any
// remaining table width to non-explicit columns in proportion to those
// intrinsic weights, splitting evenly when every weight is zero.
func measureColumns(ctx *Context, cells []tableCell, colCount int, tableWidth, spacing float64) []float64 {
	widths := make([]float64, colCount)
	explicit := make([]bool, colCount)
	for _, c := range cells {
		if c.colSpan != 1 {
			continue
		}
		cellBox := ctx.Arena.Get(c.ref)
		if cellBox == nil {
			continue
		}
		if w, ok := resolveIfNotAuto(cellBox.Style.Width, tableWidth); ok {
			if w > widths[c.col] {
				widths[c.col] = w
				explicit[c.col] = true
			}
			continue
		}
		probe := ContainingBlock{Width: tableWidth}
		Layout(ctx, c.ref, probe, nil)
		m := cellBox.BoxModel
		intrinsic := widestRunLine(ctx.Arena, c.ref) +
			m.PaddingLeft + m.PaddingRight + m.BorderLeft + m.BorderRight
		if intrinsic > widths[c.col] {
			widths[c.col] = intrinsic
		}
	}

	total := spacing * float64(colCount+1)
	for _, w := range widths {
		total += w
	}
	free := tableWidth - total
	if free <= 0 {
		return widths
	}

	weightSum := 0.0
	flexible := 0
	for i, ex := range explicit {
		if !ex {
			weightSum += widths[i]
			flexible++
		}
	}
	if flexible == 0 {
		// Every column is explicitly sized: spread the leftovers evenly.
		share := free / float64(colCount)
		for i := range widths {
			widths[i] += share
		}
		return widths
	}
	for i, ex := range explicit {
		if ex {
			continue
		}
		if weightSum > 0 {
			widths[i] += free * widths[i] / weightSum
		} else {
			widths[i] += free / float64(flexible)
		}
	}
	return widths
}

// spanWidth sums sizes across a span of grid tracks plus the internal
// spacing gaps the span swallows.
func spanWidth(sizes []float64, start, span int, spacing float64) float64 {
	total := 0.0
	for i := 0; i < span && start+i < len(sizes); i++ {
		total += sizes[start+i]
	}
	if span > 1 {
		total += spacing * float64(span-1)
	}
	return total
}
