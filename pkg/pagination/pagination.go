package pagination

import "strconv"

// limitChoices is the closed set of page sizes list endpoints accept.
// Anything else collapses to 0, which means "no paging".
var limitChoices = map[int]bool{
	10:  true,
	25:  true,
	50:  true,
	100: true,
}

// Params holds page inputs parsed from query values. Offset counts pages,
// not rows.
type Params struct {
	Limit  int
	Offset int
}

// ParseParams converts raw query values into Params. Unparseable or
// out-of-policy values default to 0 rather than erroring; a list request
// never fails on bad paging input.
func ParseParams(rawLimit, rawOffset string) Params {
	var p Params

	if v, err := strconv.Atoi(rawLimit); err == nil && limitChoices[v] {
		p.Limit = v
	}
	if v, err := strconv.Atoi(rawOffset); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

// SQLWindow translates page params into row-level limit and offset values.
// ok is false when the params select the whole result set.
func (p Params) SQLWindow() (limit, offset int, ok bool) {
	if p.Limit <= 0 || p.Limit <= p.Offset {
		return 0, 0, false
	}
	if p.Offset > 0 {
		return p.Limit, p.Offset * p.Limit, true
	}
	return p.Limit, 0, true
}
