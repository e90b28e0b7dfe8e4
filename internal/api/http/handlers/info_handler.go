package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/dto"
	"github.com/wajir-county/ict-helpdesk/internal/assist"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// InfoHandler serves static reference data and the help assistant.
type InfoHandler struct{}

// NewInfoHandler constructs handler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Navigation handles GET /navigation.
func (h *InfoHandler) Navigation(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": routeResponses(principal.Role())})
}

// Departments handles GET /departments.
func (h *InfoHandler) Departments(c *fiber.Ctx) error {
	departments := domain.Departments()
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		offices := department.Offices
		if offices == nil {
			offices = []string{}
		}
		items = append(items, dto.DepartmentResponse{Name: department.Name, Offices: offices})
	}
	return c.JSON(fiber.Map{"data": items})
}

// KnowledgeBase handles GET /knowledge-base.
func (h *InfoHandler) KnowledgeBase(c *fiber.Ctx) error {
	articles := assist.SearchArticles(c.Query("search"), c.Query("category"))
	items := make([]dto.ArticleResponse, 0, len(articles))
	for _, article := range articles {
		items = append(items, dto.ArticleResponse{
			ID:          article.ID,
			Title:       article.Title,
			Category:    article.Category,
			Description: article.Description,
			Content:     article.Content,
			Difficulty:  article.Difficulty,
			ReadTime:    article.ReadTime,
		})
	}
	return c.JSON(fiber.Map{
		"data":       items,
		"categories": assist.ArticleCategories(),
	})
}

// Chat handles POST /assistant/chat.
func (h *InfoHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatResponse{Reply: assist.ChatReply(req.Message)}})
}
