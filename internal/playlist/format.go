package playlist

import (
	"path/filepath"
	"strings"
)

// Format is the container class inferred from a file's extension.
type Format string

const (
	FormatUnknown Format = ""
	FormatVOB     Format = "vob"
	FormatMP4     Format = "mp4"
	FormatMKV     Format = "mkv"
	FormatMOV     Format = "mov"
	FormatAVI     Format = "avi"
	FormatFLV     Format = "flv"
	FormatWMV     Format = "wmv"
	FormatWebM    Format = "webm"
	Format3GP     Format = "3gp"
	FormatGIF     Format = "gif"
)

var byExtension = map[string]Format{
	".vob":  FormatVOB,
	".mp4":  FormatMP4,
	".mkv":  FormatMKV,
	".mov":  FormatMOV,
	".avi":  FormatAVI,
	".flv":  FormatFLV,
	".wmv":  FormatWMV,
	".webm": FormatWebM,
	".3gp":  Format3GP,
	".gif":  FormatGIF,
}

// Classify maps a path to its container class by extension,
// case-insensitively. ok is false for unrecognized extensions.
func Classify(path string) (Format, bool) {
	f, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return f, ok
}
