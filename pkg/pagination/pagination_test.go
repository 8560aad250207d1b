package pagination

import "testing"

func TestParseParams(t *testing.T) {
	tests := []struct {
		name       string
		rawLimit   string
		rawOffset  string
		wantLimit  int
		wantOffset int
	}{
		{name: "both valid", rawLimit: "25", rawOffset: "2", wantLimit: 25, wantOffset: 2},
		{name: "limit outside choices", rawLimit: "33", rawOffset: "1", wantLimit: 0, wantOffset: 1},
		{name: "garbage limit", rawLimit: "abc", rawOffset: "1", wantLimit: 0, wantOffset: 1},
		{name: "garbage offset", rawLimit: "10", rawOffset: "x", wantLimit: 10, wantOffset: 0},
		{name: "negative offset", rawLimit: "10", rawOffset: "-3", wantLimit: 10, wantOffset: 0},
		{name: "empty", rawLimit: "", rawOffset: "", wantLimit: 0, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseParams(tt.rawLimit, tt.rawOffset)
			if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Fatalf("got %+v, want limit=%d offset=%d", p, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestSQLWindow(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		wantLimit  int
		wantOffset int
		wantOK     bool
	}{
		{name: "no limit selects all", params: Params{}, wantOK: false},
		{name: "first page", params: Params{Limit: 10}, wantLimit: 10, wantOffset: 0, wantOK: true},
		{name: "later page", params: Params{Limit: 10, Offset: 3}, wantLimit: 10, wantOffset: 30, wantOK: true},
		{name: "offset beyond limit selects all", params: Params{Limit: 10, Offset: 12}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, ok := tt.params.SQLWindow()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (limit != tt.wantLimit || offset != tt.wantOffset) {
				t.Fatalf("window = (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
