package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/link"
	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
)

// GET /admin/category/manage
func (h *Handler) manageCategories(c *gin.Context) {
	h.site.HTML(c, http.StatusOK, "admin/manage_category.html", nil)
}

func (h *Handler) renderNameForm(c *gin.Context, heading, action string, form interface{}, withURL bool, errs forms.Errors) {
	h.site.HTML(c, http.StatusOK, "admin/name_form.html", gin.H{
		"heading":  heading,
		"action":   action,
		"form":     form,
		"with_url": withURL,
		"errors":   errs,
	})
}

func nameInUse() forms.Errors {
	errs := forms.Errors{}
	errs.Add("name", "Name already in use.")
	return errs
}

// GET /admin/category/new
func (h *Handler) newCategoryPage(c *gin.Context) {
	h.renderNameForm(c, "New Category", "/admin/category/new", &category.Form{}, false, nil)
}

// POST /admin/category/new
func (h *Handler) createCategory(c *gin.Context) {
	var form category.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderNameForm(c, "New Category", "/admin/category/new", &form, false, errs)
		return
	}
	_, err := h.categories.Create(form.Name)
	if errors.Is(err, category.ErrNameInUse) {
		h.renderNameForm(c, "New Category", "/admin/category/new", &form, false, nameInUse())
		return
	}
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Category created.")
	c.Redirect(http.StatusFound, categoryManagePath)
}

// editableCategory loads the category behind :id. The default category is
// refused with message.
func (h *Handler) editableCategory(c *gin.Context, message string) *models.CategoryModel {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return nil
	}
	if id == models.DefaultCategoryID {
		h.site.Flash(c, flash.Warning, message)
		c.Redirect(http.StatusFound, "/")
		return nil
	}
	cat, err := h.categories.GetByID(id)
	if err != nil {
		h.site.ServerError(c, err)
		return nil
	}
	if cat == nil {
		h.site.NotFound(c)
		return nil
	}
	return cat
}

// GET /admin/category/:id/edit
func (h *Handler) editCategoryPage(c *gin.Context) {
	cat := h.editableCategory(c, "You can not edit the default category.")
	if cat == nil {
		return
	}
	h.renderNameForm(c, "Edit Category", fmt.Sprintf("/admin/category/%d/edit", cat.ID), &category.Form{Name: cat.Name}, false, nil)
}

// POST /admin/category/:id/edit
func (h *Handler) updateCategory(c *gin.Context) {
	cat := h.editableCategory(c, "You can not edit the default category.")
	if cat == nil {
		return
	}
	action := fmt.Sprintf("/admin/category/%d/edit", cat.ID)

	var form category.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderNameForm(c, "Edit Category", action, &form, false, errs)
		return
	}
	_, err := h.categories.Rename(cat.ID, form.Name)
	if errors.Is(err, category.ErrNameInUse) {
		h.renderNameForm(c, "Edit Category", action, &form, false, nameInUse())
		return
	}
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Category updated.")
	c.Redirect(http.StatusFound, categoryManagePath)
}

// POST /admin/category/:id/delete
func (h *Handler) deleteCategory(c *gin.Context) {
	cat := h.editableCategory(c, "You can not delete the default category.")
	if cat == nil {
		return
	}
	if err := h.categories.Delete(cat.ID); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Category deleted.")
	c.Redirect(http.StatusFound, categoryManagePath)
}

// --- links ---

// GET /admin/link/manage
func (h *Handler) manageLinks(c *gin.Context) {
	h.site.HTML(c, http.StatusOK, "admin/manage_link.html", nil)
}

// GET /admin/link/new
func (h *Handler) newLinkPage(c *gin.Context) {
	h.renderNameForm(c, "New Link", "/admin/link/new", &link.Form{}, true, nil)
}

// POST /admin/link/new
func (h *Handler) createLink(c *gin.Context) {
	var form link.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderNameForm(c, "New Link", "/admin/link/new", &form, true, errs)
		return
	}
	if _, err := h.links.Create(&form); err != nil {
		h.site.ServerError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Link created.")
	c.Redirect(http.StatusFound, linkManagePath)
}

// GET /admin/link/:id/edit
func (h *Handler) editLinkPage(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	l, err := h.links.GetByID(id)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if l == nil {
		h.site.NotFound(c)
		return
	}
	h.renderNameForm(c, "Edit Link", fmt.Sprintf("/admin/link/%d/edit", l.ID), &link.Form{Name: l.Name, URL: l.URL}, true, nil)
}

// POST /admin/link/:id/edit
func (h *Handler) updateLink(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	var form link.Form
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderNameForm(c, "Edit Link", fmt.Sprintf("/admin/link/%d/edit", id), &form, true, errs)
		return
	}
	l, err := h.links.Update(id, &form)
	if err != nil {
		h.site.ServerError(c, err)
		return
	}
	if l == nil {
		h.site.NotFound(c)
		return
	}
	h.site.Flash(c, flash.Success, "Link updated.")
	c.Redirect(http.StatusFound, linkManagePath)
}

// POST /admin/link/:id/delete
func (h *Handler) deleteLink(c *gin.Context) {
	id, ok := web.ParamID(c, "id")
	if !ok {
		h.site.NotFound(c)
		return
	}
	if err := h.links.Delete(id); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	h.site.Flash(c, flash.Success, "Link deleted.")
	c.Redirect(http.StatusFound, linkManagePath)
}
