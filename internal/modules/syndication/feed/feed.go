package feed

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/bluelog/core/internal/pkg/markdown"
	"github.com/gin-gonic/gin"
)

const feedSize = 20

// RegisterRoutes mounts RSS and Atom feed endpoints.
func RegisterRoutes(r gin.IRouter, posts *post.Service, users *user.Service, cfg *config.AppConfig) {
	r.GET("/feed", func(c *gin.Context) {
		renderFeed(c, posts, users, cfg, c.DefaultQuery("type", "rss"))
	})
	r.GET("/atom.xml", func(c *gin.Context) {
		renderFeed(c, posts, users, cfg, "atom")
	})
}

type feedItem struct {
	Title   string
	Link    string
	PubDate time.Time
	Content string
}

func renderFeed(c *gin.Context, posts *post.Service, users *user.Service, cfg *config.AppConfig, feedType string) {
	latest, err := posts.Latest(feedSize)
	if err != nil {
		c.String(http.StatusInternalServerError, "feed error")
		return
	}
	owner, err := users.GetOwner()
	if err != nil {
		c.String(http.StatusInternalServerError, "feed error")
		return
	}
	if owner == nil {
		owner = &models.AdminModel{BlogTitle: "Bluelog"}
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	items := make([]feedItem, len(latest))
	for i, p := range latest {
		items[i] = feedItem{
			Title:   p.Title,
			Link:    fmt.Sprintf("%s/post/%d", base, p.ID),
			PubDate: p.Timestamp,
			Content: string(markdown.Render(p.Body)),
		}
	}

	var (
		body        []byte
		contentType string
	)
	switch feedType {
	case "atom":
		contentType = "application/atom+xml; charset=utf-8"
		body, err = buildAtom(owner.BlogTitle, owner.BlogSubTitle, base, items)
	default:
		contentType = "application/rss+xml; charset=utf-8"
		body, err = buildRSS(owner.BlogTitle, owner.BlogSubTitle, base, items)
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "feed error")
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description cdataStr `xml:"description"`
}

type cdataStr struct {
	Text string `xml:",cdata"`
}

func buildRSS(title, desc, link string, items []feedItem) ([]byte, error) {
	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:         title,
			Link:          link + "/",
			Description:   desc,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, item := range items {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       item.Title,
			Link:        item.Link,
			GUID:        item.Link,
			PubDate:     item.PubDate.Format(time.RFC1123Z),
			Description: cdataStr{Text: item.Content},
		})
	}
	return marshal(doc)
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle"`
	Link     atomLink    `xml:"link"`
	Updated  string      `xml:"updated"`
	ID       string      `xml:"id"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Content atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Text string `xml:",cdata"`
}

func buildAtom(title, desc, link string, items []feedItem) ([]byte, error) {
	doc := atomFeed{
		Title:    title,
		Subtitle: desc,
		Link:     atomLink{Href: link + "/"},
		Updated:  time.Now().UTC().Format(time.RFC3339),
		ID:       link + "/",
	}
	for _, item := range items {
		doc.Entries = append(doc.Entries, atomEntry{
			Title:   item.Title,
			Link:    atomLink{Href: item.Link},
			ID:      item.Link,
			Updated: item.PubDate.UTC().Format(time.RFC3339),
			Content: atomContent{Type: "html", Text: item.Content},
		})
	}
	return marshal(doc)
}

func marshal(v interface{}) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
