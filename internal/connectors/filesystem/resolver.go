package filesystem

import "strings"

// ResolvePath converts a file:// URI or a bare path to a local path.
func ResolvePath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	return uri
}
