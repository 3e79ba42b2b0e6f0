package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// defaultFileStem is used when the company name is empty or has no usable
// characters.
const defaultFileStem = "fintech"

// FileName returns the download name for an export, for example
// "Acme-Pay-impact-radar.docx".
func FileName(companyName string, f Format) string {
	return fileStem(companyName) + "-impact-radar." + f.Extension()
}

// fileStem makes a company name safe for use in a file name. Diacritics are
// stripped, whitespace becomes '-', and anything outside letters, digits,
// '-', '_' and '.' is dropped.
func fileStem(companyName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(companyName))
	if err != nil {
		folded = companyName
	}

	var sb strings.Builder
	lastDash := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastDash = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
			sb.WriteRune(r)
			lastDash = false
		}
	}

	stem := strings.Trim(sb.String(), "-.")
	if stem == "" {
		return defaultFileStem
	}
	return stem
}
