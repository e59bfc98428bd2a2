package rows

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

const (
	accent     = "#34C759"
	track      = "#E5E5EA"
	textColor  = "#1C1C1E"
	subtleText = "#8E8E93"
	separator  = "#C7C7CC"
	pad        = table.DefaultInset * 2
	fontSize   = table.DefaultFontSize
)

func rowBackground(buf *bytes.Buffer, f sink.RowFrame) {
	fmt.Fprintf(buf, `    <rect x="0" y="0" width="%.2f" height="%.2f" fill="#FFFFFF" stroke="%s" stroke-width="0.5"/>`+"\n",
		f.Rect.W, f.Rect.H, separator)
}

func label(buf *bytes.Buffer, x, y float64, anchor, weight, color string, size float64, text string) {
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="central" font-size="%.1f" font-weight="%s" fill="%s">%s</text>`+"\n",
		x, y, anchor, size, weight, color, sink.EscapeXML(text))
}

func progressSVG(buf *bytes.Buffer, f sink.RowFrame) {
	rowBackground(buf, f)
	cy := f.Rect.H / 2
	text := sink.TruncateLabel(value(f, "label", 0), f.Rect.W/3-pad, fontSize)
	label(buf, pad, cy, "start", "normal", textColor, fontSize, text)

	x := f.Rect.W / 3
	w := max(f.Rect.W-x-pad*3, 0)
	const h = 8.0
	fmt.Fprintf(buf, `    <rect class="progress-track" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s"/>`+"\n",
		x, cy-h/2, w, h, track)
	fmt.Fprintf(buf, `    <rect class="progress-bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s"/>`+"\n",
		x, cy-h/2, w*percent(f)/100, h, accent)
	label(buf, f.Rect.W-pad, cy, "end", "normal", subtleText, fontSize*0.85, fmt.Sprintf("%.0f%%", percent(f)))
}

func cardSVG(buf *bytes.Buffer, f sink.RowFrame) {
	const inset = 4.0
	fmt.Fprintf(buf, `    <rect class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="#FFFFFF" stroke="%s"/>`+"\n",
		inset, inset, max(f.Rect.W-2*inset, 0), max(f.Rect.H-2*inset, 0), separator)

	title, subtitle, status := value(f, "title", 0), value(f, "subtitle", 1), value(f, "status", 2)
	avail := f.Rect.W * 2 / 3
	if subtitle == "" {
		label(buf, pad, f.Rect.H/2, "start", "bold", textColor, fontSize, sink.TruncateLabel(title, avail, fontSize))
	} else {
		label(buf, pad, f.Rect.H*0.36, "start", "bold", textColor, fontSize, sink.TruncateLabel(title, avail, fontSize))
		label(buf, pad, f.Rect.H*0.68, "start", "normal", subtleText, fontSize*0.85, sink.TruncateLabel(subtitle, avail, fontSize*0.85))
	}

	if status != "" {
		bw := float64(len([]rune(status)))*fontSize*0.5 + pad
		bx := f.Rect.W - pad - bw
		fmt.Fprintf(buf, `    <rect class="badge" x="%.2f" y="%.2f" width="%.2f" height="20" rx="10" fill="%s"/>`+"\n",
			bx, f.Rect.H/2-10, bw, track)
		label(buf, bx+bw/2, f.Rect.H/2, "middle", "normal", textColor, fontSize*0.8, status)
	}
}

func toggleSVG(buf *bytes.Buffer, f sink.RowFrame) {
	rowBackground(buf, f)
	cy := f.Rect.H / 2
	const w, h = 44.0, 24.0
	x := f.Rect.W - pad - w

	label(buf, pad, cy, "start", "normal", textColor, fontSize, sink.TruncateLabel(value(f, "title", 0), x-pad*2, fontSize))

	fill, knob := track, x+h/2
	if enabled(f) {
		fill, knob = accent, x+w-h/2
	}
	fmt.Fprintf(buf, `    <rect class="toggle" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s"/>`+"\n",
		x, cy-h/2, w, h, h/2, fill)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="#FFFFFF"/>`+"\n", knob, cy, h/2-2)
}
