package common

import (
	"reflect"
	"strings"
)

// RequestName is the short type name of a request, "*simulation.StepCommand" becomes "StepCommand"
func RequestName(request Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	parts := strings.Split(fullName, ".")
	return parts[len(parts)-1]
}
