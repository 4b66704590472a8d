package blog

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/comment"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/bluelog/core/internal/modules/notify"
	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	site       *web.Site
	posts      *post.Service
	categories *category.Service
	comments   *comment.Service
	users      *user.Service
	notify     *notify.Service
}

func NewHandler(
	site *web.Site,
	posts *post.Service,
	categories *category.Service,
	comments *comment.Service,
	users *user.Service,
	notifySvc *notify.Service,
) *Handler {
	return &Handler{
		site:       site,
		posts:      posts,
		categories: categories,
		comments:   comments,
		users:      users,
		notify:     notifySvc,
	}
}

// RegisterRoutes mounts the public pages. commentMW guards comment posting.
func (h *Handler) RegisterRoutes(r gin.IRouter, commentMW ...gin.HandlerFunc) {
	r.GET("/", h.index)
	r.GET("/page/:page", h.index)
	r.GET("/about", h.about)
	r.GET("/category/:id", h.showCategory)
	r.GET("/post/:id", h.showPost)
	r.POST("/post/:id", append(commentMW, h.createComment)...)
	r.GET("/reply/comment/:id", h.replyComment)
	r.GET("/change-theme/:name", h.changeTheme)
}

// GET /, GET /page/:page
func (h *Handler) index(c *gin.Context) {
	q := pagination.PageFromContext(c, h.site.Cfg.Blog.PostPerPage)
	posts, pag, err := h.posts.List(q)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.HTML(c, http.StatusOK, "blog/index.html", gin.H{
		"posts":      posts,
		"pagination": pag,
		"pager_url":  "/page/%d",
	})
}

// GET /about
func (h *Handler) about(c *gin.Context) {
	h.site.HTML(c, http.StatusOK, "blog/about.html", nil)
}

// GET /category/:id
func (h *Handler) showCategory(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	cat, err := h.categories.GetByID(id)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if cat == nil {
		h.site.NotFound(c)
		return
	}

	q := pagination.PageFromContext(c, h.site.Cfg.Blog.PostPerPage)
	posts, pag, err := h.posts.ListByCategory(cat.ID, q)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.HTML(c, http.StatusOK, "blog/category.html", gin.H{
		"category":   cat,
		"posts":      posts,
		"pagination": pag,
		"pager_url":  fmt.Sprintf("/category/%d?page=%%d", cat.ID),
	})
}

func (h *Handler) loadPost(c *gin.Context) *models.PostModel {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return nil
	}
	p, err := h.posts.GetByID(id)
	if err != nil {
		h.site.ServerError(c, err)
		return nil
	}
	if p == nil {
		h.site.NotFound(c)
		return nil
	}
	return p
}

// GET /post/:id
func (h *Handler) showPost(c *gin.Context) {
	p := h.loadPost(c)
	if p == nil {
		return
	}
	h.renderPost(c, http.StatusOK, p, &comment.Form{}, nil)
}

func (h *Handler) renderPost(c *gin.Context, status int, p *models.PostModel, form interface{}, errs forms.Errors) {
	q := pagination.PageFromContext(c, h.site.Cfg.Blog.CommentPerPage)
	comments, pag, err := h.comments.ListReviewed(p.ID, q)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}

	data := gin.H{
		"post":       p,
		"comments":   comments,
		"pagination": pag,
		"pager_url":  fmt.Sprintf("/post/%d?page=%%d#comments", p.ID),
		"form":       form,
		"errors":     errs,
	}
	if replyID, ok := queryID(c, "reply"); ok {
		data["reply_id"] = replyID
		data["reply_author"] = c.Query("author")
	}
	h.site.HTML(c, status, "blog/post.html", data)
}

// POST /post/:id
func (h *Handler) createComment(c *gin.Context) {
	p := h.loadPost(c)
	if p == nil {
		return
	}

	in := comment.NewComment{PostID: p.ID}
	fromAdmin := middleware.IsAuthenticated(c)
	var owner *models.AdminModel
	if fromAdmin {
		var form comment.AdminForm
		if errs := forms.Bind(c, &form); errs != nil {
			h.renderPost(c, http.StatusOK, p, &form, errs)
			return
		}
		var err error
		if owner, err = h.users.GetByID(middleware.CurrentAdminID(c)); err != nil {
			h.site.ServerError(c, err)
			return
		}
		in.Body = form.Body
		in.FromAdmin = true
		if owner != nil {
			in.Author = owner.Name
		}
		in.Email = h.site.Cfg.AdminEmail
		in.Site = h.site.Cfg.BaseURL
	} else {
		var form comment.Form
		if errs := forms.Bind(c, &form); errs != nil {
			h.renderPost(c, http.StatusOK, p, &form, errs)
			return
		}
		in.Author, in.Email, in.Site, in.Body = form.Author, form.Email, form.Site, form.Body
	}
	if replyID, ok := queryID(c, "reply"); ok {
		in.RepliedID = &replyID
	}

	cm, err := h.comments.Create(in)
	switch {
	case errors.Is(err, comment.ErrCommentDisabled):
		h.site.Flash(c, flash.Warning, "Comment is disabled.")
		c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", p.ID))
		return
	case errors.Is(err, comment.ErrPostNotFound), errors.Is(err, comment.ErrReplyNotFound):
		h.site.NotFound(c)
		return
	case errors.Is(err, comment.ErrReplyMismatch):
		h.site.BadRequest(c, "The comment you replied to belongs to another post.")
		return
	case err != nil:
		h.site.ServerError(c, err)
		return
	}

	blogTitle := ""
	if owner, _ := h.users.GetOwner(); owner != nil {
		blogTitle = owner.BlogTitle
	}
	if fromAdmin {
		h.site.Flash(c, flash.Success, "Comment published.")
	} else {
		h.site.Flash(c, flash.Info, "Thanks, your comment will be published after reviewed.")
		h.notify.OnNewComment(blogTitle, p, cm)
	}
	if cm.Replied != nil {
		h.notify.OnNewReply(blogTitle, p, cm, cm.Replied)
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", p.ID))
}

// GET /reply/comment/:id
func (h *Handler) replyComment(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	cm, err := h.comments.GetByID(id)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if cm == nil || cm.Post == nil {
		h.site.NotFound(c)
		return
	}
	if !cm.Post.CanComment {
		h.site.Flash(c, flash.Warning, "Comment is disabled.")
		c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", cm.PostID))
		return
	}
	target := fmt.Sprintf("/post/%d?reply=%d&author=%s#comment-form", cm.PostID, cm.ID, url.QueryEscape(cm.Author))
	c.Redirect(http.StatusFound, target)
}

// GET /change-theme/:name
func (h *Handler) changeTheme(c *gin.Context) {
	name := c.Param("name")
	if _, ok := h.site.Cfg.ThemeName(name); !ok {
		h.site.NotFound(c)
		return
	}
	h.site.SetTheme(c, name)
	h.site.RedirectBack(c, "/")
}

func queryID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
