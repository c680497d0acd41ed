package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# cozmo-cli commands

| Command | Effect |
|---|---|
| ` + "`runfsm(\"name\")`" + ` | Load (or reload) the program and make it the active state machine |
| ` + "`tracefsm(level)`" + ` | Set the engine trace level 0-9; pass -1 to query |
| ` + "`tm <text>`" + ` | Deliver a text message event to the running state machine |
| ` + "`show active`" + ` | Print the running nodes and transitions of the active program |
| ` + "`show viewer`" + ` | Open the camera viewer (aliases: cam_viewer) |
| ` + "`show particle_viewer`" + ` | Open the particle filter viewer |
| ` + "`show path_viewer`" + ` | Open the path viewer |
| ` + "`show worldmap_viewer`" + ` | Open the world map viewer |
| ` + "`!<command>`" + ` | Run a host shell command |
| ` + "`exit`" + ` | Stop the active program and quit |

Any other line is evaluated as Go. The namespace holds ` + "`robot`" + `,
` + "`world`" + `, ` + "`charger`" + `, ` + "`cube1`" + `..` + "`cube3`" + `, and ` + "`ans()`" + `,
the value of the last expression.
`

// RenderHelp renders the command reference for the terminal. If styling
// fails the raw markdown is still readable, so it is returned as-is.
func RenderHelp() string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
