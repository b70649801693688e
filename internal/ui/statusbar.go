package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"projectable/internal/log"
)

var levelStyles = map[logrus.Level]tcell.Style{
	logrus.ErrorLevel: tcell.StyleDefault.Foreground(tcell.ColorRed),
	logrus.WarnLevel:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
	logrus.InfoLevel:  tcell.StyleDefault,
}

// StatusBar draws the bottom line: the latest message on the left and
// runtime indicators on the right.
func StatusBar(s tcell.Screen, r Rect, buf *log.Buffer, pending int, filter string) {
	FillLine(s, r.X, r.Y, r.W, ' ', tcell.StyleDefault)

	if line, ok := buf.Last(); ok {
		style, found := levelStyles[line.Level]
		if !found {
			style = tcell.StyleDefault
		}
		DrawText(s, r.X, r.Y, r.W, style, line.Message)
	}

	right := ""
	if filter != "" {
		right = fmt.Sprintf("filter: %s  ", filter)
	}
	if pending > 0 {
		right += fmt.Sprintf("[%d running]", pending)
	}
	if right != "" {
		x := r.X + r.W - len(right)
		if x < r.X {
			x = r.X
		}
		DrawText(s, x, r.Y, r.W, tcell.StyleDefault.Dim(true), right)
	}
}
