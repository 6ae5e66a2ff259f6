package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "" // tag
	IconGitBranch = "" // git branch
	IconCalendar  = "" // calendar
	IconGithub    = "" // github
	IconHeart     = "" // heart
	IconGo        = "" // go gopher

	IconCheck   = "" // check
	IconX       = "" // x
	IconInfo    = "" // info
	IconWarning = "" // warning
	IconConfig  = "" // config
	IconFolder  = "" // folder
	IconImage   = "" // image file
	IconCache   = "" // cache
	IconUser    = "" // user
	IconSearch  = "" // search

	IconCursor = "" // chevron-right
	IconPrev   = "" // chevron-left
)

const (
	cursorEmpty    = "  "
	cursorSelected = "▸ " // ▸ Black right-pointing small triangle
)
