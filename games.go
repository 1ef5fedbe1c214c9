package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/jx"

	"atarihw/hw/games"
	"atarihw/romset"
)

func listGames(w io.Writer, asJSON bool) error {
	if asJSON {
		var e jx.Encoder
		e.SetIdent(2)
		encodeGames(&e)
		_, err := w.Write(append(e.Bytes(), '\n'))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tYEAR\tAUDIO\tCHIPS\tDESCRIPTION")
	for _, name := range games.Names() {
		g, _ := games.Lookup(name)
		fmt.Fprintf(tw, "%s\t%d\t%v\t%s\t%s\n", g.Name, g.Year, g.JSA, chipList(g), g.FullName)
	}
	return tw.Flush()
}

func chipList(g *games.GameDesc) string {
	var s []string
	for _, c := range g.Chips {
		s = append(s, c.String())
	}
	return strings.Join(s, ",")
}

func encodeGames(e *jx.Encoder) {
	e.Arr(func(e *jx.Encoder) {
		for _, name := range games.Names() {
			g, _ := games.Lookup(name)
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(g.Name) })
				e.Field("description", func(e *jx.Encoder) { e.Str(g.FullName) })
				e.Field("year", func(e *jx.Encoder) { e.Int(g.Year) })
				e.Field("audio", func(e *jx.Encoder) { e.Str(g.JSA.String()) })
				e.Field("chips", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, c := range g.Chips {
							e.Str(c.String())
						}
					})
				})
				e.Field("screen", func(e *jx.Encoder) {
					e.Obj(func(e *jx.Encoder) {
						e.Field("width", func(e *jx.Encoder) { e.Int(g.Screen.Width) })
						e.Field("height", func(e *jx.Encoder) { e.Int(g.Screen.Height) })
						e.Field("fps", func(e *jx.Encoder) { e.Int(g.Screen.FPS) })
					})
				})
				e.Field("regions", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, r := range g.Regions {
							e.Obj(func(e *jx.Encoder) {
								e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
								e.Field("size", func(e *jx.Encoder) { e.Int(r.Size) })
							})
						}
					})
				})
			})
		}
	})
}

// romInfos prints the files of a ROM set and whether they match the
// manifest.
func romInfos(w io.Writer, path string) error {
	fsys, closer, err := romset.Open(path)
	if err != nil {
		return err
	}
	defer closer()

	m, infos, err := romset.Check(fsys)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "game: %s\n", m.Game)
	if _, err := games.Lookup(m.Game); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tREGION\tOFFSET\tLOAD\tCRC\tSTATUS")
	for _, info := range infos {
		status := "ok"
		switch {
		case !info.Present:
			status = "missing"
		case info.Err != nil:
			status = fmt.Sprintf("%v (got %08x)", info.Err, info.Actual)
		}
		load := string(info.Load)
		if load == "" {
			load = "linear"
		}
		fmt.Fprintf(tw, "%s\t%s\t%#x\t%s\t%08x\t%s\n", info.Name, info.Region, info.Offset, load, uint32(info.CRC), status)
	}
	return tw.Flush()
}
