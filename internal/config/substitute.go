package config

import "strings"

// PwdToken is the placeholder in volume host paths that resolves to the
// operator's current directory at launch time.
const PwdToken = "{pwd}"

// legacyPwdToken is the shell-style form accepted for backwards
// compatibility with older configs.
const legacyPwdToken = "$(pwd)"

// ResolveHostPath expands current-directory tokens in a volume host path
// template.
func ResolveHostPath(template, currentDirectory string) string {
	resolved := strings.ReplaceAll(template, PwdToken, currentDirectory)
	return strings.ReplaceAll(resolved, legacyPwdToken, currentDirectory)
}
