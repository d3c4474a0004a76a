package dto

import "testing"

func TestPageRequest_GetPage(t *testing.T) {
	tests := []struct {
		name string
		page string
		want int
	}{
		{"缺省", "", 1},
		{"非数字", "abc", 1},
		{"零", "0", 1},
		{"负数", "-3", 1},
		{"正常", "7", 7},
		{"超过上限", "9223372036854775807", MaxPage},
		{"超出 int 范围", "99999999999999999999999", MaxPage},
		{"负数溢出", "-99999999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := PageRequest{Page: tt.page}
			if got := req.GetPage(); got != tt.want {
				t.Errorf("GetPage(%q) = %d, want %d", tt.page, got, tt.want)
			}
		})
	}
}

func TestPageRequest_GetOffsetNeverNegative(t *testing.T) {
	for _, perPage := range []int{DivisionPerPage, AttendancePerPage} {
		req := PageRequest{Page: "9223372036854775807"}
		offset := req.GetOffset(perPage)
		if offset < 0 {
			t.Fatalf("perPage=%d 时偏移量溢出为负数: %d", perPage, offset)
		}
		if want := (MaxPage - 1) * perPage; offset != want {
			t.Errorf("perPage=%d offset = %d, want %d", perPage, offset, want)
		}
	}
}
