package domain

// SystemSetting is a key/value pair controlling portal presentation.
type SystemSetting struct {
	Key   string
	Value string
}

// SettingKeys lists the keys admins may write. Unknown keys in an update are
// skipped silently.
func SettingKeys() []string {
	return []string{"COMPANY_NAME", "WELCOME_TEXT"}
}
