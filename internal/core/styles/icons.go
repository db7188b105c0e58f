package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

// Notification icons
var (
	IconNotifySuccess = ""
	IconNotifyError   = ""
	IconNotifyWarning = ""
	IconNotifyInfo    = ""
)

var (
	IconUpdate   = ""
	IconSettings = ""
	IconSidebar  = ""
)
