package render

// Camera translates between arena cells and screen coordinates.
// World X is multiplied by 2 because emoji occupy 2 terminal columns.
// World Z grows up the screen so that "forward" at yaw 0 points north.
type Camera struct {
	OffsetX    int
	OffsetZ    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centered on cell (cx, cz).
func NewCamera(cx, cz, viewW, viewH int) *Camera {
	c := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	c.Center(cx, cz)
	return c
}

// Center repositions the camera so that cell (cx, cz) is in the middle.
func (c *Camera) Center(cx, cz int) {
	// ViewWidth is in columns; each cell is 2 columns wide.
	c.OffsetX = cx - (c.ViewWidth/2)/2
	c.OffsetZ = cz + c.ViewHeight/2
}

// WorldToScreen converts cell (wx, wz) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wz int) (sx, sy int, visible bool) {
	sx = (wx - c.OffsetX) * 2
	sy = c.OffsetZ - wz
	visible = sx >= 0 && sx < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts screen (sx, sy) to a cell.
func (c *Camera) ScreenToWorld(sx, sy int) (int, int) {
	return sx/2 + c.OffsetX, c.OffsetZ - sy
}
