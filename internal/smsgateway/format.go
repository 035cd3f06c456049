package smsgateway

import (
	"fmt"

	"github.com/bibletext/dailyverse/internal/models"
)

// maxSMSLength is the conventional single-segment SMS budget.
const maxSMSLength = 160

// FormatVerse compacts a verse into `"<text>" - <reference> (<version>)`.
// When the full string exceeds the SMS budget the verse text is truncated
// with an ellipsis; the reference/version suffix carries attribution and is
// never dropped.
func FormatVerse(v *models.Verse) string {
	msg := fmt.Sprintf("\"%s\" - %s (%s)", v.Text, v.Reference, v.Version)
	if len(msg) <= maxSMSLength {
		return msg
	}

	cut := maxSMSLength - len(v.Reference) - len(v.Version) - 15
	if cut < 0 {
		cut = 0
	}
	if cut > len(v.Text) {
		cut = len(v.Text)
	}

	return fmt.Sprintf("\"%s...\" - %s (%s)", v.Text[:cut], v.Reference, v.Version)
}
