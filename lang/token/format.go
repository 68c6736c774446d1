package token

import "strconv"

// PosMode controls how FormatPos renders a Pos.
type PosMode int

const (
	// PosLong renders "file:line:col".
	PosLong PosMode = iota
	// PosOffsets renders the 0-based byte offset within the file.
	PosOffsets
	// PosRaw renders the raw Pos value.
	PosRaw
	// PosNone renders nothing.
	PosNone
)

func (m PosMode) String() string {
	switch m {
	case PosLong:
		return "long"
	case PosOffsets:
		return "offsets"
	case PosRaw:
		return "raw"
	case PosNone:
		return "none"
	default:
		return "unknown"
	}
}

// FormatPos renders p according to mode, resolving filename/line/column
// against file. If p is invalid, it renders "file:-:-" (PosLong) or "-"
// (PosOffsets), matching the convention that 0 means "unknown"; PosRaw
// always renders the integer value of p.
func FormatPos(mode PosMode, file *File, p Pos) string {
	switch mode {
	case PosNone:
		return ""
	case PosRaw:
		return strconv.Itoa(int(p))
	case PosOffsets:
		if !p.IsValid() || file == nil {
			return "-"
		}
		return strconv.Itoa(file.Offset(p))
	default: // PosLong
		if file == nil {
			return ""
		}
		if !p.IsValid() {
			return file.Name() + ":-:-"
		}
		pos := file.Position(p)
		return pos.String()
	}
}
