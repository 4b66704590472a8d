package api

import (
	"time"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/comment"
	"github.com/bluelog/core/internal/modules/content/link"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/bluelog/core/internal/pkg/markdown"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/bluelog/core/internal/pkg/response"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
)

// Handler serves the read-only JSON API.
type Handler struct {
	posts      *post.Service
	categories *category.Service
	comments   *comment.Service
	links      *link.Service
}

func NewHandler(posts *post.Service, categories *category.Service, comments *comment.Service, links *link.Service) *Handler {
	return &Handler{posts: posts, categories: categories, comments: comments, links: links}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts", h.listPosts)
	rg.GET("/posts/:id", h.getPost)
	rg.GET("/posts/:id/comments", h.listComments)
	rg.GET("/categories", h.listCategories)
	rg.GET("/links", h.listLinks)
}

type categoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type postResponse struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	Excerpt    string       `json:"excerpt"`
	Body       string       `json:"body,omitempty"`
	HTML       string       `json:"html,omitempty"`
	CanComment bool         `json:"can_comment"`
	Category   *categoryRef `json:"category,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type commentResponse struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Site      string    `json:"site,omitempty"`
	Body      string    `json:"body"`
	FromAdmin bool      `json:"from_admin"`
	RepliedID *uint     `json:"replied_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func toPostResponse(p *models.PostModel, full bool) postResponse {
	out := postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Excerpt:    markdown.Excerpt(p.Body, 200),
		CanComment: p.CanComment,
		Timestamp:  p.Timestamp,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Category != nil {
		out.Category = &categoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	if full {
		out.Body = p.Body
		out.HTML = string(markdown.Render(p.Body))
	}
	return out
}

// GET /api/posts
func (h *Handler) listPosts(c *gin.Context) {
	q := pagination.FromContext(c)
	posts, pag, err := h.posts.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toPostResponse(&posts[i], false)
	}
	response.Paged(c, items, pag)
}

// GET /api/posts/:id
func (h *Handler) getPost(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	p, err := h.posts.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toPostResponse(p, true))
}

// GET /api/posts/:id/comments
func (h *Handler) listComments(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	p, err := h.posts.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	comments, pag, err := h.comments.ListReviewed(p.ID, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]commentResponse, len(comments))
	for i, cm := range comments {
		items[i] = commentResponse{
			ID:        cm.ID,
			Author:    cm.Author,
			Site:      cm.Site,
			Body:      cm.Body,
			FromAdmin: cm.FromAdmin,
			RepliedID: cm.RepliedID,
			Timestamp: cm.Timestamp,
		}
	}
	response.Paged(c, items, pag)
}

// GET /api/categories
func (h *Handler) listCategories(c *gin.Context) {
	items, err := h.categories.ListWithCounts()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /api/links
func (h *Handler) listLinks(c *gin.Context) {
	items, err := h.links.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}
