package ui

// ANSI escape sequences used by the decorated output variants. Colors are
// 256-color codes so they render consistently across common terminals.
var userColors = []string{
	"\033[38;5;39m",
	"\033[38;5;205m",
	"\033[38;5;77m",
	"\033[38;5;208m",
	"\033[38;5;141m",
	"\033[38;5;51m",
	"\033[38;5;226m",
	"\033[38;5;203m",
}

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	italic = "\033[3m"
	dim    = "\033[2m"

	systemColor = "\033[38;5;77m"
	accentColor = "\033[38;5;141m"
	infoColor   = "\033[38;5;39m"
)

// Cursor control sequences for erasing the client's just-typed input line
// before the rendered output replaces it.
const (
	CursorUp      = "\033[1A"
	ClearLine     = "\033[2K"
	CursorToStart = "\033[0G"
)

// InputPrompt is written before each read so the client knows the server is
// ready for another line.
const InputPrompt = "> "
