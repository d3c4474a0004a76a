package response

import (
	"net/url"
	"strconv"
)

// NewPagination 根据总数与当前页构造分页元数据
// pageURL 为不含 page 参数变化的请求地址（含原始查询串），用于生成上一页/下一页链接；
// pageURL 为 nil 时不生成链接
func NewPagination(page, perPage int, total int64, itemCount int, pageURL *url.URL) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	if page <= 0 {
		page = 1
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	p := Pagination{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}

	if itemCount > 0 {
		from := (page-1)*perPage + 1
		to := from + itemCount - 1
		p.From = &from
		p.To = &to
	}

	if pageURL != nil {
		if page < lastPage {
			next := withPage(pageURL, page+1)
			p.NextPageURL = &next
		}
		if page > 1 {
			prev := withPage(pageURL, page-1)
			p.PrevPageURL = &prev
		}
	}

	return p
}

func withPage(u *url.URL, page int) string {
	cp := *u
	q := cp.Query()
	q.Set("page", strconv.Itoa(page))
	cp.RawQuery = q.Encode()
	return cp.String()
}
