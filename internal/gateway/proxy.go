// Package gateway forwards public API calls to the auth and catalog services.
package gateway

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Proxy relays requests to an upstream service and copies the answer back.
type Proxy struct {
	client *http.Client
	log    *logrus.Entry
}

func NewProxy(timeout time.Duration, log *logrus.Entry) *Proxy {
	return &Proxy{client: &http.Client{Timeout: timeout}, log: log}
}

// RegisterRoutes sends the auth endpoints to authURL and every other API read
// to catalogURL.
func RegisterRoutes(r *gin.Engine, p *Proxy, authURL, catalogURL string) {
	toAuth := p.To(authURL)
	r.POST("/api/register", toAuth)
	r.POST("/api/login", toAuth)
	r.POST("/api/refresh", toAuth)

	r.GET("/api/*path", p.To(catalogURL))
}

// To returns a handler forwarding the request path and query to serviceURL.
func (p *Proxy) To(serviceURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewBuffer(bodyBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create request"})
			return
		}

		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		req.Header.Set("X-Forwarded-For", c.ClientIP())

		resp, err := p.client.Do(req)
		if err != nil {
			p.log.WithError(err).WithField("upstream", serviceURL).Error("Error proxying request")
			c.JSON(http.StatusBadGateway, gin.H{"message": "Service unavailable"})
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to read response"})
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				c.Header(key, value)
			}
		}

		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}
