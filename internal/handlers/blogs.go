package handlers

import (
	"net/http"

	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateBlogRequest is the create payload. Likes defaults to 0.
type CreateBlogRequest struct {
	Title  string `json:"title" example:"Go Concurrency Patterns"`
	Author string `json:"author" example:"Rob Pike"`
	URL    string `json:"url" example:"https://go.dev/talks/2012/concurrency.slide"`
	Likes  *int   `json:"likes,omitempty" example:"0"`
}

// UpdateBlogRequest replaces the fields that are present.
type UpdateBlogRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	URL    *string `json:"url,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// CommentRequest is the comment payload.
type CommentRequest struct {
	Comment string `json:"comment" example:"Great read"`
}

// @Summary      List blogs
// @Tags         blogs
// @Produce      json
// @Success      200  {array}   models.Blog
// @Router       /api/blogs [get]
func (h *Handler) listBlogs(c *gin.Context) {
	blogs, err := h.services.Blogs.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// @Summary      Get a blog
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Blog ID"
// @Success      200  {object}  models.Blog
// @Failure      404  {object}  map[string]string
// @Router       /api/blogs/{id} [get]
func (h *Handler) getBlog(c *gin.Context) {
	b, err := h.services.Blogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Create a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBlogRequest  true  "Blog"
// @Success      201   {object}  models.Blog
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/blogs [post]
// @Security     BearerAuth
func (h *Handler) createBlog(c *gin.Context) {
	var req CreateBlogRequest
	if ok := h.bindJSON(c, &req); !ok {
		return
	}

	actor := currentUser(c)
	b, err := h.services.Blogs.Create(c.Request.Context(), actor, service.BlogInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Infow("blog_created", "blog_id", b.ID, "user_id", actor.ID)
	c.JSON(http.StatusCreated, b)
}

// @Summary      Update a blog
// @Description  Any authenticated user may update; there is no ownership check.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Blog ID"
// @Param        body  body      UpdateBlogRequest  true  "Fields to replace"
// @Success      200   {object}  models.Blog
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/blogs/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateBlog(c *gin.Context) {
	var req UpdateBlogRequest
	if ok := h.bindJSON(c, &req); !ok {
		return
	}

	b, err := h.services.Blogs.Update(c.Request.Context(), c.Param("id"), service.BlogUpdate{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Delete a blog
// @Description  Only the user who created the blog may delete it.
// @Tags         blogs
// @Param        id   path  string  true  "Blog ID"
// @Success      204
// @Failure      400  {object}  map[string]string  "not the owner"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/blogs/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteBlog(c *gin.Context) {
	actor := currentUser(c)
	id := c.Param("id")

	if err := h.services.Blogs.Delete(c.Request.Context(), actor, id); err != nil {
		h.log.Infow("blog_delete_rejected", "blog_id", id, "user_id", actor.ID, "err", err)
		h.fail(c, err)
		return
	}

	h.log.Infow("blog_deleted", "blog_id", id, "user_id", actor.ID)
	c.Status(http.StatusNoContent)
}

// @Summary      Like a blog
// @Description  Adds one like. No authentication required.
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Blog ID"
// @Success      200  {object}  models.Blog
// @Failure      404  {object}  map[string]string
// @Router       /api/blogs/{id}/likes [post]
func (h *Handler) likeBlog(c *gin.Context) {
	b, err := h.services.Blogs.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Comment on a blog
// @Description  Appends a comment. No authentication required.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Blog ID"
// @Param        body  body      CommentRequest  true  "Comment"
// @Success      200   {object}  models.Blog
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/blogs/{id}/comments [post]
func (h *Handler) commentBlog(c *gin.Context) {
	var req CommentRequest
	if ok := h.bindJSON(c, &req); !ok {
		return
	}

	b, err := h.services.Blogs.Comment(c.Request.Context(), c.Param("id"), req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
