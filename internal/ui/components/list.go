package components

// List is a scrollable cursor over a fixed set of rows.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list showing pageSize rows at a time.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// SetItems replaces items and resets the cursor.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.Cursor = 0
	l.Offset = 0
}

// SetPageSize changes the window height, keeping the cursor visible.
func (l *List) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	l.PageSize = n
	l.follow()
}

// Len is the number of items.
func (l *List) Len() int {
	return len(l.Items)
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		l.follow()
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		l.follow()
	}
}

func (l *List) follow() {
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
}

// Visible returns the rows currently in the window.
func (l *List) Visible() []string {
	if len(l.Items) == 0 {
		return nil
	}
	end := l.Offset + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.Offset:end]
}

// Selected returns the cursor index.
func (l *List) Selected() int {
	return l.Cursor
}

// RelToAbs converts a visible index to an absolute one.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
