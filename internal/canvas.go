package internal

import "github.com/samber/lo"

type StrokeType string

const (
	StrokeBeginPath StrokeType = "beginPath"
	StrokeDrawLine  StrokeType = "drawLine"
)

// StrokeRecord is one replayable segment of the shared canvas. Coordinates
// are kept exactly as the drawer sent them.
type StrokeRecord struct {
	Type     StrokeType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Color    string     `json:"color,omitempty"`
	Size     float64    `json:"size,omitempty"`
	IsEraser bool       `json:"isEraser,omitempty"`
	PathID   int        `json:"-"`
}

// History actions that touch the authoritative drawing log.
const (
	ActionUndo     = "UNDO"
	ActionRedo     = "REDO"
	ActionEraseAll = "ERASEALL"
)

// AppendStroke records a segment. A new path started after an undo discards
// the undone paths first.
func (r *Room) AppendStroke(rec StrokeRecord) {
	switch rec.Type {
	case StrokeBeginPath:
		if r.VisiblePaths < r.NextPathID {
			r.truncatePaths(r.VisiblePaths)
		}
		rec.PathID = r.NextPathID
		r.NextPathID++
		r.VisiblePaths = r.NextPathID
	default:
		if r.NextPathID == 0 {
			r.NextPathID = 1
			r.VisiblePaths = 1
		}
		rec.PathID = r.NextPathID - 1
	}

	r.DrawingLog = append(r.DrawingLog, rec)
	if over := len(r.DrawingLog) - MaxDrawingLog; over > 0 {
		r.DrawingLog = r.DrawingLog[over:]
	}
}

func (r *Room) truncatePaths(keep int) {
	r.DrawingLog = lo.Filter(r.DrawingLog, func(rec StrokeRecord, _ int) bool {
		return rec.PathID < keep
	})
	r.NextPathID = keep
}

// SetHistoryPointer applies a client undo/redo position: paths up to and
// including pointer stay visible.
func (r *Room) SetHistoryPointer(pointer int) {
	visible := pointer + 1
	if visible < 0 {
		visible = 0
	}
	if visible > r.NextPathID {
		visible = r.NextPathID
	}
	r.VisiblePaths = visible
}

func (r *Room) ClearDrawing() {
	r.DrawingLog = make([]StrokeRecord, 0)
	r.NextPathID = 0
	r.VisiblePaths = 0
}

// VisibleDrawing is the log a late joiner should replay.
func (r *Room) VisibleDrawing() []StrokeRecord {
	return lo.Filter(r.DrawingLog, func(rec StrokeRecord, _ int) bool {
		return rec.PathID < r.VisiblePaths
	})
}
