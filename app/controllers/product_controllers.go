package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// productForm reads the multipart product form. A body over the size cap
// is reported as the photo size violation.
func productForm(c *ctx.Context) (services.ProductInput, error) {
	if err := c.ParseMultipart(); err != nil {
		if errors.Is(err, ctx.ErrBodyTooLarge) {
			return services.ProductInput{}, &services.ValidationError{Message: "photo is Required and should be less then 1mb"}
		}
		return services.ProductInput{}, err
	}

	in := services.ProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Category:    c.PostForm("category"),
		Quantity:    c.PostForm("quantity"),
		Shipping:    c.PostForm("shipping"),
	}

	file, header, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return in, err
	}
	in.Photo = data
	in.PhotoContentType = header.Header.Get("Content-Type")
	if in.PhotoContentType == "" || in.PhotoContentType == "application/octet-stream" {
		in.PhotoContentType = http.DetectContentType(data)
	}
	return in, nil
}

// writeProductError answers validation failures as 500 {error} and other
// failures as 500 with the failure envelope.
func writeProductError(c *ctx.Context, message string, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusInternalServerError, ctx.H{"error": verr.Message})
		return
	}
	c.Log().Error(message, "error", err)
	c.Fail(http.StatusInternalServerError, message, err)
}

func (pc *ProductController) Create(c *ctx.Context) {
	in, err := productForm(c)
	if err != nil {
		writeProductError(c, "Error in creating product", err)
		return
	}

	product, err := pc.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		writeProductError(c, "Error in creating product", err)
		return
	}
	c.Created(ctx.H{"success": true, "message": "Product Created Successfully", "products": product})
}

func (pc *ProductController) Update(c *ctx.Context) {
	in, err := productForm(c)
	if err != nil {
		writeProductError(c, "Error in Update product", err)
		return
	}

	product, err := pc.catalog.UpdateProduct(c.Context(), c.Param("pid"), in)
	if err != nil {
		writeProductError(c, "Error in Update product", err)
		return
	}
	c.Created(ctx.H{"success": true, "message": "Product Updated Successfully", "products": product})
}

func (pc *ProductController) List(c *ctx.Context) {
	products, err := pc.catalog.Products(c.Context())
	if err != nil {
		c.Log().Error("list products", "error", err)
		c.Fail(http.StatusInternalServerError, "Error in getting products", err)
		return
	}
	products = nonNil(products)
	c.OK(ctx.H{"success": true, "countTotal": len(products), "message": "All Products", "products": products})
}

// Show answers 200 with a null product for an unknown slug.
func (pc *ProductController) Show(c *ctx.Context) {
	product, err := pc.catalog.ProductBySlug(c.Context(), c.Param("slug"))
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		c.Log().Error("single product", "slug", c.Param("slug"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error while getting single product", err)
		return
	}
	c.OK(ctx.H{"success": true, "message": "Single Product Fetched", "product": product})
}

func (pc *ProductController) Photo(c *ctx.Context) {
	data, contentType, err := pc.catalog.ProductPhoto(c.Context(), c.Param("pid"))
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && len(data) == 0) {
		c.Fail(http.StatusNotFound, "Photo not found", nil)
		return
	}
	if err != nil {
		c.Log().Error("product photo", "pid", c.Param("pid"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error while getting photo", err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

func (pc *ProductController) Delete(c *ctx.Context) {
	if err := pc.catalog.DeleteProduct(c.Context(), c.Param("pid")); err != nil {
		c.Log().Error("delete product", "pid", c.Param("pid"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error while deleting product", err)
		return
	}
	c.OK(ctx.H{"success": true, "message": "Product Deleted successfully"})
}

type filterRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

func (pc *ProductController) Filter(c *ctx.Context) {
	var in filterRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, "Error While Filtering Products", err)
		return
	}

	products, err := pc.catalog.Filter(c.Context(), in.Checked, in.Radio)
	if err != nil {
		c.Log().Error("filter products", "error", err)
		c.Fail(http.StatusBadRequest, "Error While Filtering Products", err)
		return
	}
	c.OK(ctx.H{"success": true, "products": nonNil(products)})
}

func (pc *ProductController) Count(c *ctx.Context) {
	total, err := pc.catalog.ProductCount(c.Context())
	if err != nil {
		c.Log().Error("product count", "error", err)
		c.Fail(http.StatusBadRequest, "Error in product count", err)
		return
	}
	c.OK(ctx.H{"success": true, "total": total})
}

func (pc *ProductController) Page(c *ctx.Context) {
	page := 1
	if raw := c.Param("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.Fail(http.StatusBadRequest, "Error in per page ctrl", err)
			return
		}
		page = n
	}

	products, err := pc.catalog.Page(c.Context(), page)
	if err != nil {
		c.Log().Error("product page", "page", page, "error", err)
		c.Fail(http.StatusBadRequest, "Error in per page ctrl", err)
		return
	}
	c.OK(ctx.H{"success": true, "products": nonNil(products)})
}

// Search answers with a bare array of products.
func (pc *ProductController) Search(c *ctx.Context) {
	products, err := pc.catalog.Search(c.Context(), c.Param("keyword"))
	if err != nil {
		c.Log().Error("search products", "keyword", c.Param("keyword"), "error", err)
		c.Fail(http.StatusBadRequest, "Error In Search Product API", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(products))
}

func (pc *ProductController) Related(c *ctx.Context) {
	products, err := pc.catalog.Related(c.Context(), c.Param("pid"), c.Param("cid"))
	if err != nil {
		c.Log().Error("related products", "error", err)
		c.Fail(http.StatusBadRequest, "Error while getting related product", err)
		return
	}
	c.OK(ctx.H{"success": true, "products": nonNil(products)})
}

func (pc *ProductController) ByCategory(c *ctx.Context) {
	category, products, err := pc.catalog.ByCategorySlug(c.Context(), c.Param("slug"))
	if err != nil {
		c.Log().Error("category products", "slug", c.Param("slug"), "error", err)
		c.Fail(http.StatusBadRequest, "Error While Getting products", err)
		return
	}
	c.OK(ctx.H{"success": true, "category": category, "products": nonNil(products)})
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
