package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/comment"
	"github.com/bluelog/core/internal/modules/content/link"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	postManagePath     = "/admin/post/manage"
	commentManagePath  = "/admin/comment/manage"
	categoryManagePath = "/admin/category/manage"
	linkManagePath     = "/admin/link/manage"
)

type Handler struct {
	site       *web.Site
	users      *user.Service
	posts      *post.Service
	comments   *comment.Service
	categories *category.Service
	links      *link.Service
	uploads    *Uploads
}

func NewHandler(
	site *web.Site,
	users *user.Service,
	posts *post.Service,
	comments *comment.Service,
	categories *category.Service,
	links *link.Service,
	uploads *Uploads,
) *Handler {
	return &Handler{
		site:       site,
		users:      users,
		posts:      posts,
		comments:   comments,
		categories: categories,
		links:      links,
		uploads:    uploads,
	}
}

// RegisterRoutes mounts the admin pages behind loginMW and the public
// uploads route.
func (h *Handler) RegisterRoutes(r gin.IRouter, loginMW gin.HandlerFunc) {
	r.GET("/uploads/:filename", h.serveUpload)

	admin := r.Group("/admin", loginMW)
	admin.GET("/settings", h.settingsPage)
	admin.POST("/settings", h.saveSettings)
	admin.POST("/upload", h.upload)

	posts := admin.Group("/post")
	posts.GET("/manage", h.managePosts)
	posts.GET("/new", h.newPostPage)
	posts.POST("/new", h.createPost)
	posts.GET("/:id/edit", h.editPostPage)
	posts.POST("/:id/edit", h.updatePost)
	posts.POST("/:id/delete", h.deletePost)
	posts.POST("/:id/set-comment", h.setComment)

	comments := admin.Group("/comment")
	comments.GET("/manage", h.manageComments)
	comments.POST("/:id/approve", h.approveComment)
	comments.POST("/:id/delete", h.deleteComment)

	categories := admin.Group("/category")
	categories.GET("/manage", h.manageCategories)
	categories.GET("/new", h.newCategoryPage)
	categories.POST("/new", h.createCategory)
	categories.GET("/:id/edit", h.editCategoryPage)
	categories.POST("/:id/edit", h.updateCategory)
	categories.POST("/:id/delete", h.deleteCategory)

	links := admin.Group("/link")
	links.GET("/manage", h.manageLinks)
	links.GET("/new", h.newLinkPage)
	links.POST("/new", h.createLink)
	links.GET("/:id/edit", h.editLinkPage)
	links.POST("/:id/edit", h.updateLink)
	links.POST("/:id/delete", h.deleteLink)
}

// --- settings ---

// GET /admin/settings
func (h *Handler) settingsPage(c *gin.Context) {
	owner, err := h.users.GetByID(middleware.CurrentAdminID(c))
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if owner == nil {
		h.site.NotFound(c)
		return
	}
	h.renderSettings(c, &user.SettingsForm{
		Name:         owner.Name,
		BlogTitle:    owner.BlogTitle,
		BlogSubTitle: owner.BlogSubTitle,
		About:        owner.About,
	}, nil)
}

func (h *Handler) renderSettings(c *gin.Context, form *user.SettingsForm, errs forms.Errors) {
	h.site.HTML(c, http.StatusOK, "admin/settings.html", gin.H{
		"form":   form,
		"errors": errs,
		"editor": "about",
	})
}

// POST /admin/settings
func (h *Handler) saveSettings(c *gin.Context) {
	var form user.SettingsForm
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderSettings(c, &form, errs)
		return
	}
	owner, err := h.users.UpdateSettings(middleware.CurrentAdminID(c), &form)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if owner == nil {
		h.site.NotFound(c)
		return
	}
	h.site.Flash(c, flash.Success, "Setting updated.")
	c.Redirect(http.StatusFound, "/")
}

// --- posts ---

// GET /admin/post/manage
func (h *Handler) managePosts(c *gin.Context) {
	q := pagination.PageFromContext(c, h.site.Cfg.Blog.ManagePostPerPage)
	posts, pag, err := h.posts.Manage(q)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.HTML(c, http.StatusOK, "admin/manage_post.html", gin.H{
		"posts":      posts,
		"pagination": pag,
		"pager_url":  postManagePath + "?page=%d",
		"offset":     (q.Page-1)*q.Size + 1,
		"return_to":  c.Request.URL.RequestURI(),
	})
}

func (h *Handler) renderPostForm(c *gin.Context, heading, action string, form *post.Form, errs forms.Errors) {
	h.site.HTML(c, http.StatusOK, "admin/post_form.html", gin.H{
		"heading": heading,
		"action":  action,
		"form":    form,
		"errors":  errs,
		"editor":  "body",
	})
}

// GET /admin/post/new
func (h *Handler) newPostPage(c *gin.Context) {
	h.renderPostForm(c, "New Post", "/admin/post/new", &post.Form{CategoryID: models.DefaultCategoryID}, nil)
}

// POST /admin/post/new
func (h *Handler) createPost(c *gin.Context) {
	var form post.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderPostForm(c, "New Post", "/admin/post/new", &form, errs)
		return
	}
	p, err := h.posts.Create(&form)
	if errors.Is(err, post.ErrUnknownCategory) {
		h.renderPostForm(c, "New Post", "/admin/post/new", &form, unknownCategory())
		return
	}
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Post created.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", p.ID))
}

// GET /admin/post/:id/edit
func (h *Handler) editPostPage(c *gin.Context) {
	p := h.loadPost(c)
	if p == nil {
		return
	}
	h.renderPostForm(c, "Edit Post", fmt.Sprintf("/admin/post/%d/edit", p.ID), &post.Form{
		Title:      p.Title,
		CategoryID: p.CategoryID,
		Body:       p.Body,
	}, nil)
}

// POST /admin/post/:id/edit
func (h *Handler) updatePost(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	action := fmt.Sprintf("/admin/post/%d/edit", id)

	var form post.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderPostForm(c, "Edit Post", action, &form, errs)
		return
	}
	p, err := h.posts.Update(id, &form)
	if errors.Is(err, post.ErrUnknownCategory) {
		h.renderPostForm(c, "Edit Post", action, &form, unknownCategory())
		return
	}
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if p == nil {
		h.site.NotFound(c)
		return
	}
	h.site.Flash(c, flash.Success, "Post updated.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", p.ID))
}

// POST /admin/post/:id/delete
func (h *Handler) deletePost(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	if err := h.posts.Delete(id); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Post deleted.")
	h.site.RedirectBack(c, postManagePath)
}

// POST /admin/post/:id/set-comment
func (h *Handler) setComment(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	enabled, err := h.posts.ToggleComment(id)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	if enabled {
		h.site.Flash(c, flash.Success, "Comment enabled.")
	} else {
		h.site.Flash(c, flash.Success, "Comment disabled.")
	}
	h.site.RedirectBack(c, fmt.Sprintf("/post/%d", id))
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

func unknownCategory() forms.Errors {
	errs := forms.Errors{}
	errs.Add("category", "Not a valid choice.")
	return errs
}

// --- comments ---

// GET /admin/comment/manage
func (h *Handler) manageComments(c *gin.Context) {
	filter := comment.ParseFilter(c.Query("filter"))
	q := pagination.PageFromContext(c, h.site.Cfg.Blog.CommentPerPage)
	comments, pag, err := h.comments.ListForModeration(filter, q)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.HTML(c, http.StatusOK, "admin/manage_comment.html", gin.H{
		"comments":   comments,
		"pagination": pag,
		"filter":     string(filter),
		"pager_url":  commentManagePath + "?filter=" + string(filter) + "&page=%d",
		"offset":     (q.Page-1)*q.Size + 1,
		"return_to":  c.Request.URL.RequestURI(),
	})
}

// POST /admin/comment/:id/approve
func (h *Handler) approveComment(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	if err := h.comments.Approve(id); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Comment published.")
	h.site.RedirectBack(c, commentManagePath)
}

// POST /admin/comment/:id/delete
func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	if err := h.comments.Delete(id); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Comment deleted.")
	h.site.RedirectBack(c, commentManagePath)
}

func (h *Handler) notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.site.NotFound(c)
		return
	}
	h.site.ServerError(c, err)
}
