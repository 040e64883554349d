package ui

// Banner is the ASCII art shown to clients right after they pick a nickname.
const Banner = `
 __  __           _      ____ _           _
|  \/  | ___  ___| |__  / ___| |__   __ _| |_
| |\/| |/ _ \/ __| '_ \| |   | '_ \ / _` + "`" + ` | __|
| |  | |  __/\__ \ | | | |___| | | | (_| | |_
|_|  |_|\___||___/_| |_|\____|_| |_|\__,_|\__|
`
