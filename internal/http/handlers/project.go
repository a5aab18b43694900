package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type ProjectHandler struct {
	catalog services.CatalogService
}

func NewProjectHandler(catalog services.CatalogService) *ProjectHandler {
	return &ProjectHandler{catalog: catalog}
}

// GET /projects[?category=]
func (h *ProjectHandler) List(c *gin.Context) {
	recs, err := h.catalog.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if recs == nil {
		recs = []project.Record{}
	}
	response.RespondOK(c, recs)
}

// GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	rec, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var rec project.Record
	if err := bindJSON(c, &rec); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	stored, err := h.catalog.Create(c.Request.Context(), rec)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "project": stored})
}

// PUT /projects
func (h *ProjectHandler) Update(c *gin.Context) {
	var rec project.Record
	if err := bindJSON(c, &rec); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	stored, err := h.catalog.Update(c.Request.Context(), rec)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "project": stored})
}

// DELETE /projects?id=
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Query("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
