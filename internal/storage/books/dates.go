package books

import (
	"fmt"
	"strconv"
	"strings"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NormalizeDate maps a loose "<day> <MonthName> <year>" string such as
// "5 March 2021" onto the chronologically sortable key "2021-03-05". The
// month must be one of the twelve full English names, matched exactly.
// ok is false for anything else; such records are ordered after all dated
// ones instead of failing the query. The key is used for ordering only and
// never written back to the stored date.
func NormalizeDate(s string) (key string, ok bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return "", false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}

	month := 0
	for ix, name := range monthNames {
		if name == parts[1] {
			month = ix + 1
			break
		}
	}
	if month == 0 {
		return "", false
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 4 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
