package model

import "strings"

// Address is one recipient record from the address table. Name may span
// several lines when the source row was repaired from a split record.
type Address struct {
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

// String renders the address as the block printed on the mail piece:
// name and street on their own lines, then city, state and zip joined by
// single spaces on the last line.
func (a Address) String() string {
	last := strings.Join([]string{a.City, a.State, a.Zip}, " ")
	return strings.Join([]string{a.Name, a.Street, last}, "\n")
}

// PageUnit is one physical sheet's worth of addresses in final print order.
// Bottom is empty in 1-per-sheet mode and on a padded final sheet.
type PageUnit struct {
	Top    string
	Bottom string
}
