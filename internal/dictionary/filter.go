package dictionary

import (
	"strings"
)

// Filter returns the attributes selected by include, in dictionary order.
// An include entry matches a keyword (case-insensitive) or a tag written as
// "(gggg,eeee)", "gggg,eeee" or "ggggeeee". An empty include selects every
// attribute. Entries that matched nothing are returned as missing; an entry
// that only matched retired attributes dropped by skipRetired is not.
func Filter(attrs []Attribute, include []string, skipRetired bool) (selected []Attribute, missing []string) {
	if len(include) == 0 {
		for _, a := range attrs {
			if skipRetired && a.Retired {
				continue
			}
			selected = append(selected, a)
		}
		return selected, nil
	}

	want := make(map[string]string, len(include))
	for _, inc := range include {
		want[matchKey(inc)] = inc
	}
	hit := make(map[string]bool, len(include))

	for _, a := range attrs {
		matched := false
		for _, k := range [...]string{matchKey(a.Keyword), NormalizeTag(a.Tag)} {
			if k != "" && want[k] != "" {
				hit[k] = true
				matched = true
			}
		}
		if !matched {
			continue
		}
		if skipRetired && a.Retired {
			continue
		}
		selected = append(selected, a)
	}

	for _, inc := range include {
		if !hit[matchKey(inc)] {
			missing = append(missing, inc)
		}
	}
	return selected, missing
}

// NormalizeTag converts "(0010,0010)", "0010,0010" and "00100010" into
// "00100010" (lower-case hex). Non-tag input yields "".
func NormalizeTag(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ToLower(s)
	if len(s) != 8 {
		return ""
	}
	for _, r := range s {
		// Dictionary tags use x as a wildcard for repeating groups (50xx,0010).
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r == 'x') {
			return ""
		}
	}
	return s
}

func matchKey(s string) string {
	if t := NormalizeTag(s); t != "" {
		return t
	}
	return strings.ToLower(strings.TrimSpace(s))
}
