// Package barcode derives the label barcode string for a teacher.
// The string is computed once when the teacher is created and stored;
// later edits to the classification codes do not change it.
package barcode

import (
	"fmt"
	"strings"

	"github.com/nellaibill/teachersbank/models"
)

const prefix = "ARL"

// ForTeacher builds the barcode string for a teacher that already has an ID.
// Format: ARL|<DT>|<SUB>|<MED>|<SS>|<NNNNNN>
// e.g. ARL|EN6|X|EM|01|000001
func ForTeacher(t *models.Teacher) string {
	dt := upperOr(t.DtCode, "XX")
	sub := upperOr(t.SubCode, "XX")
	med := upperOr(t.Medium, "EM")
	std := pad(t.Std, 2)
	id := fmt.Sprintf("%06d", t.ID)
	return strings.Join([]string{prefix, dt, sub, med, std, id}, "|")
}

func upperOr(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return strings.ToUpper(s)
}

func pad(s string, width int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "0"
	}
	for len(s) < width {
		s = "0" + s
	}
	return s
}
