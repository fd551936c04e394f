package utils

import (
	"path/filepath"
	"strings"
)

// mountPrefixes are locations where network shares are usually mounted
var mountPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/Volumes/", // macOS network volumes
	"/net/",     // autofs
}

// shareMarkers flag a path component that names a network filesystem
var shareMarkers = []string{"nfs", "cifs", "smb", "webdav", "sshfs", "gvfs"}

// NetworkSourceHint reports whether path looks like a network share and which rule
// matched. Copying thesis files from such a share may be slow; nothing is probed.
func NetworkSourceHint(path string) (string, bool) {
	// UNC paths, before filepath.Abs mangles them on Unix
	if strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//") {
		return "UNC path", true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	slashed := filepath.ToSlash(absPath) + "/"
	for _, prefix := range mountPrefixes {
		if strings.HasPrefix(slashed, prefix) {
			return "mounted under " + strings.TrimSuffix(prefix, "/"), true
		}
	}

	for _, part := range strings.Split(slashed, "/") {
		lower := strings.ToLower(part)
		for _, marker := range shareMarkers {
			if lower == marker || strings.HasPrefix(lower, marker+"-") || strings.HasPrefix(lower, marker+"_") {
				return marker + " mount", true
			}
		}
	}

	return "", false
}
