package handler

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/pkg/response"
)

// pager 生成列表接口的分页元数据
type pager struct {
	base *url.URL
}

func newPager(baseURL string) *pager {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" {
		return &pager{}
	}
	return &pager{base: u}
}

// respond 输出分页列表：data 为 {key: items}，pagination 与 data 同级
func (p *pager) respond(c *gin.Context, message, key string, items any, page, perPage int, total int64, count int) {
	response.OKPage(c, message, gin.H{key: items}, response.NewPagination(page, perPage, total, count, p.pageURL(c)))
}

// pageURL 以 base_url 为前缀还原当前请求地址（保留查询串）
func (p *pager) pageURL(c *gin.Context) *url.URL {
	if p.base == nil {
		return nil
	}
	u := *p.base
	u.Path = p.base.Path + c.Request.URL.Path
	u.RawQuery = c.Request.URL.RawQuery
	return &u
}
