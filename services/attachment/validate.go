package attachment

import (
	"path/filepath"
	"strings"

	"partnerhub/pkg/errutil"

	"github.com/gabriel-vasile/mimetype"
)

const MaxFileSize = 10 << 20 // 10 MiB

// mimeByExt maps each allowed extension to the MIME types a client may declare
// for it. The sniffed type must also land in this set, so a renamed executable
// never passes on extension alone.
var mimeByExt = map[string][]string{
	".pdf":  {"application/pdf"},
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".gif":  {"image/gif"},
	".txt":  {"text/plain"},
	".csv":  {"text/csv", "text/plain"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".zip":  {"application/zip"},
}

// Validate runs the upload pipeline on an in-memory file: size cap, extension
// whitelist, declared-type agreement, then a magic-byte sniff. It returns the
// canonical content type to store.
func Validate(fileName, declaredType string, size int64, head []byte) (string, error) {
	if size > MaxFileSize {
		return "", errutil.UnprocessableEntity("file exceeds the 10MB limit", nil)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	allowed, ok := mimeByExt[ext]
	if !ok {
		return "", errutil.UnsupportedMediaType("file type not allowed", nil)
	}

	declared := normalizeType(declaredType)
	if declared != "" && !typeAllowed(declared, allowed) {
		return "", errutil.UnsupportedMediaType("declared content type does not match file extension", nil)
	}

	sniffed := normalizeType(mimetype.Detect(head).String())
	if !typeAllowed(sniffed, allowed) && !textFallback(ext, sniffed) {
		return "", errutil.UnsupportedMediaType("file content does not match its extension", nil)
	}

	return allowed[0], nil
}

func normalizeType(t string) string {
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(strings.ToLower(t))
}

func typeAllowed(t string, allowed []string) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}
	return false
}

// textFallback accepts sniffer ambiguity for plain-text formats: csv and txt
// often sniff as generic text or even utf-8 variants.
func textFallback(ext, sniffed string) bool {
	if ext != ".txt" && ext != ".csv" {
		return false
	}
	return strings.HasPrefix(sniffed, "text/")
}
