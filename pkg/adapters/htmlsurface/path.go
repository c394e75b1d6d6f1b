package htmlsurface

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResolveChromePath resolves the Chrome executable in order:
// explicitPath, the CHROME_PATH environment variable, then system defaults.
// It returns "" when nothing is found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range chromeCandidates() {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// chromeCandidates lists Chromium builds before Chrome on every platform.
func chromeCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "windows":
		var out []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			out = append(out,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return out
	default:
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome"}
	}
}

// resolveExecutable checks an absolute path for existence and looks a bare
// command name up in PATH.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
