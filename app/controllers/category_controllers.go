package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (cc *CategoryController) Create(c *ctx.Context) {
	var in categoryRequest
	_ = c.BindJSON(&in)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		c.JSON(http.StatusUnauthorized, ctx.H{"message": "Name is required"})
		return
	}

	category, err := cc.catalog.CreateCategory(c.Context(), name)
	if errors.Is(err, services.ErrCategoryExists) {
		c.OK(ctx.H{"success": false, "message": "Category Already Exists"})
		return
	}
	if err != nil {
		c.Log().Error("create category", "error", err)
		c.Fail(http.StatusInternalServerError, "Error in Category", err)
		return
	}

	c.Created(ctx.H{"success": true, "message": "New category created", "category": category})
}

func (cc *CategoryController) Update(c *ctx.Context) {
	var in categoryRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusInternalServerError, "Error while updating category", err)
		return
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		c.Fail(http.StatusInternalServerError, "Error while updating category", nil)
		return
	}

	category, err := cc.catalog.UpdateCategory(c.Context(), c.Param("id"), name)
	if err != nil {
		c.Log().Error("update category", "id", c.Param("id"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error while updating category", err)
		return
	}

	c.OK(ctx.H{"success": true, "message": "Category Updated Successfully", "category": category})
}

func (cc *CategoryController) List(c *ctx.Context) {
	categories, err := cc.catalog.Categories(c.Context())
	if err != nil {
		c.Log().Error("list categories", "error", err)
		c.Fail(http.StatusInternalServerError, "Error while getting all categories", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.OK(ctx.H{"success": true, "message": "All Categories List", "category": categories})
}

func (cc *CategoryController) Show(c *ctx.Context) {
	category, err := cc.catalog.CategoryBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		c.Log().Error("single category", "slug", c.Param("slug"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error While getting Single Category", err)
		return
	}
	c.OK(ctx.H{"success": true, "message": "Get Single Category Successfully", "category": category})
}

func (cc *CategoryController) Delete(c *ctx.Context) {
	if err := cc.catalog.DeleteCategory(c.Context(), c.Param("id")); err != nil {
		c.Log().Error("delete category", "id", c.Param("id"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error while deleting category", err)
		return
	}
	c.OK(ctx.H{"success": true, "message": "Category Deleted Successfully"})
}
