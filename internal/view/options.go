package view

import (
	"net/http"
	"strconv"

	"github.com/ping-crm/dashboard/pkg/apiclient"
)

// Countries are the choices of the country select.
var Countries = []Option{
	{Value: "United States", Label: "United States"},
	{Value: "Canada", Label: "Canada"},
	{Value: "United Kingdom", Label: "United Kingdom"},
	{Value: "Germany", Label: "Germany"},
	{Value: "France", Label: "France"},
	{Value: "Spain", Label: "Spain"},
	{Value: "Italy", Label: "Italy"},
	{Value: "Australia", Label: "Australia"},
}

// ParseID reads a route id. Only positive integers are ids.
func ParseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FailureStatus is the page status for a failed API call.
func FailureStatus(err error) int {
	if status := apiclient.StatusOf(err); status >= 400 {
		return status
	}
	return http.StatusInternalServerError
}
