package attachment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

var pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

func TestValidateAcceptsMatchingFile(t *testing.T) {
	contentType, err := Validate("chart.png", "image/png", int64(len(pngHeader)), pngHeader)
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)

	contentType, err = Validate("report.pdf", "application/pdf", int64(len(pdfHeader)), pdfHeader)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", contentType)
}

func TestValidateAcceptsMissingDeclaredType(t *testing.T) {
	// Some clients omit the part content type; the sniff still gates it.
	_, err := Validate("chart.png", "", int64(len(pngHeader)), pngHeader)
	require.NoError(t, err)
}

func TestValidateRejectsUnknownExtension(t *testing.T) {
	_, err := Validate("payload.exe", "application/octet-stream", 100, []byte("MZ"))
	require.Error(t, err)

	_, err = Validate("noextension", "text/plain", 100, []byte("hello"))
	require.Error(t, err)
}

func TestValidateRejectsDeclaredTypeMismatch(t *testing.T) {
	_, err := Validate("chart.png", "application/pdf", int64(len(pngHeader)), pngHeader)
	require.Error(t, err)
}

func TestValidateRejectsDisguisedContent(t *testing.T) {
	// A PDF renamed to .png fails the magic-byte check.
	_, err := Validate("chart.png", "image/png", int64(len(pdfHeader)), pdfHeader)
	require.Error(t, err)
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	_, err := Validate("report.pdf", "application/pdf", MaxFileSize+1, pdfHeader)
	require.Error(t, err)
}

func TestValidatePlainTextFallback(t *testing.T) {
	body := []byte("date,amount\n2026-03-01,1200\n")

	_, err := Validate("expenses.csv", "text/csv", int64(len(body)), body)
	require.NoError(t, err)

	_, err = Validate("notes.txt", "text/plain", int64(len(body)), body)
	require.NoError(t, err)
}

func TestValidateNormalizesParameters(t *testing.T) {
	_, err := Validate("notes.txt", "text/plain; charset=utf-8", 10, []byte("hello test"))
	require.NoError(t, err)
}
