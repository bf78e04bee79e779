// Package icon maps stored skill-group icon tags to renderable symbols.
package icon

import (
	"html/template"
	"strings"
)

type Icon int

const (
	Server Icon = iota
	Code
	Palette
	Database
	Layout
)

var tags = [...]string{
	Server:   "server",
	Code:     "code",
	Palette:  "palette",
	Database: "database",
	Layout:   "layout",
}

// Resolve never fails: unknown or empty tags resolve to Server.
func Resolve(tag string) Icon {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "code":
		return Code
	case "palette":
		return Palette
	case "database":
		return Database
	case "layout":
		return Layout
	default:
		return Server
	}
}

// Known reports whether tag names one of the icons exactly.
func Known(tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (i Icon) Tag() string {
	if i < 0 || int(i) >= len(tags) {
		return tags[Server]
	}
	return tags[i]
}

func (i Icon) String() string { return i.Tag() }

// Options lists every icon in form order.
func Options() []Icon {
	return []Icon{Code, Server, Palette, Database, Layout}
}

// SVG returns an inline 24x24 stroke icon.
func (i Icon) SVG() template.HTML {
	return template.HTML(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="icon icon-` +
		i.Tag() + `">` + paths[i.normalized()] + `</svg>`)
}

func (i Icon) normalized() Icon {
	if i < 0 || int(i) >= len(tags) {
		return Server
	}
	return i
}

var paths = [...]string{
	Server:   `<rect x="2" y="2" width="20" height="8" rx="2"/><rect x="2" y="14" width="20" height="8" rx="2"/><line x1="6" y1="6" x2="6.01" y2="6"/><line x1="6" y1="18" x2="6.01" y2="18"/>`,
	Code:     `<polyline points="16 18 22 12 16 6"/><polyline points="8 6 2 12 8 18"/>`,
	Palette:  `<circle cx="13.5" cy="6.5" r=".5"/><circle cx="17.5" cy="10.5" r=".5"/><circle cx="8.5" cy="7.5" r=".5"/><circle cx="6.5" cy="12.5" r=".5"/><path d="M12 2C6.5 2 2 6.5 2 12s4.5 10 10 10c.93 0 1.5-.67 1.5-1.5 0-.39-.15-.74-.39-1.01-.23-.26-.38-.61-.38-.99 0-.83.67-1.5 1.5-1.5H16c3.31 0 6-2.69 6-6 0-4.96-4.49-9-10-9z"/>`,
	Database: `<ellipse cx="12" cy="5" rx="9" ry="3"/><path d="M21 12c0 1.66-4 3-9 3s-9-1.34-9-3"/><path d="M3 5v14c0 1.66 4 3 9 3s9-1.34 9-3V5"/>`,
	Layout:   `<rect x="3" y="3" width="18" height="18" rx="2" ry="2"/><line x1="3" y1="9" x2="21" y2="9"/><line x1="9" y1="21" x2="9" y2="9"/>`,
}
