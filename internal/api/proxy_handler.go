package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProxyHandler 服务端代取 HLTV 队标（浏览器直连会被拦截）
type ProxyHandler struct {
	client *http.Client
	logger *logrus.Logger
}

func NewProxyHandler(client *http.Client, logger *logrus.Logger) *ProxyHandler {
	return &ProxyHandler{client: client, logger: logger}
}

// allowedLogoURL 只允许 http(s) 的 hltv.org 及其子域名
func allowedLogoURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "hltv.org" || strings.HasSuffix(host, ".hltv.org") {
		return u, true
	}
	return nil, false
}

// TeamLogo 透传图片，缓存 24 小时
// GET /proxy/team-logo?url=https://img-cdn.hltv.org/teamlogo/...
func (h *ProxyHandler) TeamLogo(c *gin.Context) {
	target, ok := allowedLogoURL(c.Query("url"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url 必须为 hltv.org 图片地址"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.WithError(err).WithField("url", target.String()).Warn("代理获取队标失败")
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("获取图片失败: %v", err)})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.WithFields(logrus.Fields{"url": target.String(), "status": resp.StatusCode}).Warn("代理获取队标非 200")
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("获取图片失败: HTTP %d", resp.StatusCode)})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, map[string]string{
		"Cache-Control":               "public, max-age=86400",
		"Access-Control-Allow-Origin": "*",
	})
}
