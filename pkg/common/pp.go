package common

import "strings"

type PPLevel int

const (
	PPL0 PPLevel = iota
	PPL1
	PPL2
)

func RepeatStr(str string, times int) string {
	return strings.Repeat(str, times)
}
