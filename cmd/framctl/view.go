package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/nsf/termbox-go"
	"github.com/rabidaudio/mb85rc/stream"
)

type ViewCmd struct {
	Addr string `arg:"" optional:"" default:"0" help:"Memory address to start at."`
}

// pager tracks the visible window of the viewer.
type pager struct {
	top  uint64 // address of the first row
	size uint64
	rows int
}

func (p *pager) scroll(rows int) {
	delta := int64(rows) * bytesPerRow
	last := int64(p.size) - int64(p.rows)*bytesPerRow
	if last < 0 {
		last = 0
	}
	top := min(max(int64(p.top)+delta, 0), last)
	p.top = uint64(top) &^ (bytesPerRow - 1)
}

func (p *pager) window() int {
	return int(min(uint64(p.rows)*bytesPerRow, p.size-p.top))
}

func (c *ViewCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	addr, err := parseAddress(c.Addr, s.variant.Size())
	if err != nil {
		return err
	}
	color.NoColor = true // termbox draws cells, not escape codes
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	st := s.Stream()
	_, h := termbox.Size()
	p := &pager{top: addr, size: s.variant.Size(), rows: max(h-1, 1)}
	p.scroll(0)
	for {
		if err := drawPage(st, p, s.variant.Name); err != nil {
			return err
		}
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventError:
			return ev.Err
		case termbox.EventResize:
			p.rows = max(ev.Height-1, 1)
			p.scroll(0)
		case termbox.EventKey:
			switch {
			case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q':
				return nil
			case ev.Key == termbox.KeyArrowDown || ev.Ch == 'j':
				p.scroll(1)
			case ev.Key == termbox.KeyArrowUp || ev.Ch == 'k':
				p.scroll(-1)
			case ev.Key == termbox.KeyPgdn || ev.Key == termbox.KeySpace:
				p.scroll(p.rows)
			case ev.Key == termbox.KeyPgup:
				p.scroll(-p.rows)
			case ev.Key == termbox.KeyHome:
				p.top = 0
			case ev.Key == termbox.KeyEnd:
				p.scroll(int(p.size / bytesPerRow))
			}
		}
	}
}

func drawPage(st *stream.Stream, p *pager, title string) error {
	buf := make([]byte, p.window())
	if _, err := st.Seek(int64(p.top), io.SeekStart); err != nil {
		return err
	}
	if _, err := st.Read(buf); err != nil {
		return err
	}

	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	status := fmt.Sprintf(" %v  %04X-%04X  q:quit j/k:scroll PgUp/PgDn:page", title, p.top, p.top+uint64(len(buf))-1)
	drawText(0, 0, status, termbox.ColorBlack, termbox.ColorCyan)
	for i := 0; i*bytesPerRow < len(buf); i++ {
		row := buf[i*bytesPerRow : min((i+1)*bytesPerRow, len(buf))]
		line := formatRow(p.top+uint64(i*bytesPerRow), row, func(_ byte, s string) string { return s })
		drawText(0, i+1, line, termbox.ColorDefault, termbox.ColorDefault)
	}
	return termbox.Flush()
}

func drawText(x, y int, s string, fg, bg termbox.Attribute) {
	for i, r := range s {
		termbox.SetCell(x+i, y, r, fg, bg)
	}
}
