package conf

import (
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

const stringListDelimiter = ","

// StringListValue is a kingpin.Value which accepts both repeated flags and
// comma separated lists: "--flag=a,b --flag=c" gives [a b c].
type StringListValue []string

// Set appends every comma separated element of value.
func (s *StringListValue) Set(value string) error {
	for _, elem := range strings.Split(value, stringListDelimiter) {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		*s = append(*s, elem)
	}
	return nil
}

func (s *StringListValue) String() string {
	return strings.Join(*s, stringListDelimiter)
}

// IsCumulative tells kingpin that the flag can be repeated.
func (s *StringListValue) IsCumulative() bool {
	return true
}

// StringList registers StringListValue as the value parser of given flag.
func StringList(s kingpin.Settings) *[]string {
	target := new([]string)
	s.SetValue((*StringListValue)(target))
	return target
}
