package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, posts *post.Service, categories *category.Service, cfg *config.AppConfig) {
	r.GET("/sitemap.xml", func(c *gin.Context) {
		body, err := buildSitemap(posts, categories, strings.TrimRight(cfg.BaseURL, "/"))
		if err != nil {
			c.String(http.StatusInternalServerError, "error generating sitemap")
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
	})
}

type urlSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func entry(loc string, lastMod time.Time, freq string, priority float64) sitemapURL {
	u := sitemapURL{Loc: loc, ChangeFreq: freq, Priority: fmt.Sprintf("%.1f", priority)}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format("2006-01-02")
	}
	return u
}

func buildSitemap(posts *post.Service, categories *category.Service, base string) ([]byte, error) {
	set := urlSet{URLs: []sitemapURL{
		entry(base+"/", time.Now(), "daily", 1.0),
		entry(base+"/about", time.Time{}, "monthly", 0.5),
	}}

	archive, err := posts.Archive()
	if err != nil {
		return nil, err
	}
	for _, p := range archive {
		set.URLs = append(set.URLs, entry(fmt.Sprintf("%s/post/%d", base, p.ID), p.UpdatedAt, "weekly", 0.8))
	}

	cats, err := categories.List()
	if err != nil {
		return nil, err
	}
	for _, cat := range cats {
		set.URLs = append(set.URLs, entry(fmt.Sprintf("%s/category/%d", base, cat.ID), cat.UpdatedAt, "weekly", 0.6))
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
