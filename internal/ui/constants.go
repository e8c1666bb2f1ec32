package ui

// Window defaults
const (
	AppID        = "com.ytget.yt-picker"
	WindowWidth  = 640
	WindowHeight = 560
)

// Icons (emojis/symbols)
const (
	IconFolder = "📁"
)

// QualityItemTemplate sizes list rows before the real labels are bound
const QualityItemTemplate = "2160p @ 59.94fps - 1023.9 MB"
