//go:build !darwin

package capture

// HasScreenRecordingPermission 非 macOS 系统不需要额外权限
func HasScreenRecordingPermission() bool {
	return true
}

// OpenScreenRecordingSettings 非 macOS 系统无操作
func OpenScreenRecordingSettings() {}

// PermissionInstructions 非 macOS 系统总是为空
func PermissionInstructions() string {
	return ""
}
