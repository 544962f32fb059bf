// Package web provides HTTP handlers and REST API endpoints for roadmap management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/planline/planline/pkg/export"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/services"
)

type APIHandlers struct {
	projectService *services.Project
	ideaService    *services.Idea
	roadmapService *services.Roadmap
	validator      *validator.Validate
}

func NewAPIHandlers(
	projectService *services.Project,
	ideaService *services.Idea,
	roadmapService *services.Roadmap,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		projectService: projectService,
		ideaService:    ideaService,
		roadmapService: roadmapService,
		validator:      validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.projectService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Planline API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Planline API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetProjects(c fiber.Ctx) error {
	projects, err := h.projectService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(projects)
}

func (h *APIHandlers) GetProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	project, err := h.projectService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	return c.JSON(project)
}

func (h *APIHandlers) CreateProject(c fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Owner:       req.Owner,
	}

	created, err := h.projectService.Create(c.Context(), project)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req UpdateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.projectService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Type != nil {
		existing.Type = *req.Type
	}

	updated, err := h.projectService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	err := h.projectService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetIdeas(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	ideas, err := h.ideaService.ListByProject(c.Context(), projectID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ideas)
}

func (h *APIHandlers) CreateIdea(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	var req CreateIdeaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	idea := &models.Idea{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Effort:      req.Effort,
		Impact:      req.Impact,
	}

	created, err := h.ideaService.Create(c.Context(), idea)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteIdea(c fiber.Ctx) error {
	id := c.Params("ideaId")
	if id == "" {
		return badRequest(c, "Idea ID is required")
	}

	err := h.ideaService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GenerateRoadmap runs the AI collaborator over the project's ideas. A
// project that already has a roadmap returns 409 unless force is set.
func (h *APIHandlers) GenerateRoadmap(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	var req GenerateRoadmapRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	snapshot, err := h.roadmapService.Generate(c.Context(), projectID, req.Force)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(snapshot)
}

func (h *APIHandlers) GetRoadmap(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	active, err := h.roadmapService.Active(c.Context(), projectID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(active)
}

func (h *APIHandlers) GetRoadmapHistory(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	history, err := h.roadmapService.History(c.Context(), projectID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(history)
}

func (h *APIHandlers) GetTimeline(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	features, err := h.roadmapService.Timeline(c.Context(), projectID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TimelineResponse{
		ProjectID: projectID,
		Features:  features,
	})
}

// EditTimeline reconciles edited features back into a snapshot and
// persists the result.
func (h *APIHandlers) EditTimeline(c fiber.Ctx) error {
	snapshotID := c.Params("roadmapId")
	if snapshotID == "" {
		return badRequest(c, "Roadmap ID is required")
	}

	var req EditTimelineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	snapshot, err := h.roadmapService.EditFeatures(c.Context(), snapshotID, req.Features)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(snapshot)
}

// ExportTimeline streams the active roadmap's timeline as CSV or JSON.
func (h *APIHandlers) ExportTimeline(c fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return badRequest(c, "Project ID is required")
	}

	format := export.FormatCSV
	contentType := "text/csv"
	filename := "roadmap.csv"

	if c.Query("format") == string(export.FormatJSON) {
		format = export.FormatJSON
		contentType = "application/json"
		filename = "roadmap.json"
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if err := h.roadmapService.Export(c.Context(), projectID, format, c.Response().BodyWriter()); err != nil {
		return handleServiceError(c, err)
	}

	return nil
}
