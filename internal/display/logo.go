package display

import (
	"github.com/fatih/color"
)

// 256-color palette, one entry per letter of the logo.
var logoPalette = []int{167, 185, 77, 68, 134, 170}

// Each row is split by letter so that every slice gets its own color.
var logoRows = [][6]string{
	{`  _____                    `, ``, ``, `_             `, ``, ``},
	{` | ___ \                  `, ``, ``, `| |            `, ``, ``},
	{` | |_/ /`, `  __ _ `, ` _ __  `, `  __| |`, `  ___ `, `__  __`},
	{` | ___ \`, ` / _  |`, `|  _ \ `, ` / _  |`, ` / _ \`, `\ \/ /`},
	{` | |_/ /`, `| (_| |`, `| | | |`, `| (_| |`, `|  __/ `, `>  < `},
	{` |____/ `, ` \__,_|`, `|_| |_|`, ` \__,_|`, ` \___/`, `/_/\_\ `},
}

// ShowLogo prints the bandex banner followed by version.
func (r *Renderer) ShowLogo(version string) {
	for i, row := range logoRows {
		line := ""
		for j, part := range row {
			if part == "" {
				continue
			}
			// 48;5;0 is a black background, 38;5;n the letter color.
			c := color.New(48, 5, 0, 38, 5, color.Attribute(logoPalette[j]))
			line += r.paint(c, part)
		}
		if i == len(logoRows)-1 {
			line += r.paint(color.New(48, 5, 0), version)
		}
		r.println(line)
	}
	r.println("")
}
