package todoapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todolist-server-go/internal/domain/todo"
	platformerrors "todolist-server-go/internal/platform/errors"
	httptransport "todolist-server-go/internal/transport/http"
)

const dateLayout = "2006-01-02"

// Service exposes the category and detail CRUD routes.
type Service struct {
	todos  *todo.Service
	logger *slog.Logger
}

// NewService wires the to-do transport layer.
func NewService(todos *todo.Service, logger *slog.Logger) (*Service, error) {
	if todos == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "todoapi.new", "todo service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{todos: todos, logger: logger}, nil
}

// Register mounts the routes on the secured API group.
func (s *Service) Register(router *gin.RouterGroup) {
	router.GET("/me", s.handleMe)
	router.GET("/todo-categories", s.handleListCategories)
	router.POST("/todo-categories", s.handleAddCategory)
	router.DELETE("/todo-categories/:categoryId", s.handleDeleteCategory)
	router.GET("/todo-categories/:categoryId/details", s.handleListDetails)
	router.POST("/todo-categories/:categoryId/details", s.handleAddDetail)
	router.PATCH("/todo-categories/:categoryId/details/:detailId", s.handleUpdateDetail)
	router.DELETE("/todo-categories/:categoryId/details/:detailId", s.handleDeleteDetail)
}

type categoryPayload struct {
	CategoryID int64  `json:"categoryId"`
	Title      string `json:"title"`
	DueDate    string `json:"dueDate"`
}

type detailPayload struct {
	DetailID    int64  `json:"detailId"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

type listCategoriesResponse struct {
	UserID     int64             `json:"userId"`
	Username   string            `json:"username"`
	DueDate    string            `json:"dueDate"`
	Categories []categoryPayload `json:"todoCategories"`
}

type addCategoryResponse struct {
	UserID     int64  `json:"userId"`
	CategoryID int64  `json:"categoryId"`
	Title      string `json:"title"`
	DueDate    string `json:"dueDate"`
}

type deleteCategoryResponse struct {
	UserID     int64  `json:"userId"`
	CategoryID int64  `json:"categoryId"`
	Message    string `json:"message"`
}

type allDetailsResponse struct {
	UserID     int64           `json:"userId"`
	CategoryID int64           `json:"categoryId"`
	Title      string          `json:"title"`
	DueDate    string          `json:"dueDate"`
	Details    []detailPayload `json:"details"`
}

type detailResponse struct {
	UserID      int64  `json:"userId"`
	CategoryID  int64  `json:"categoryId"`
	DetailID    int64  `json:"detailId"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

type deleteDetailResponse struct {
	UserID     int64  `json:"userId"`
	CategoryID int64  `json:"categoryId"`
	DetailID   int64  `json:"detailId"`
	Message    string `json:"message"`
}

type meResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Service) handleMe(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	c.JSON(http.StatusOK, meResponse{
		UserID:   principal.UserID,
		Username: principal.Username,
		Role:     string(principal.Role),
	})
}

func (s *Service) handleListCategories(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	dueDate, ok := s.dueDateParam(c)
	if !ok {
		return
	}

	categories, err := s.todos.Categories(c.Request.Context(), principal.UserID, dueDate)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	payload := make([]categoryPayload, len(categories))
	for i, category := range categories {
		payload[i] = toCategoryPayload(category)
	}
	c.JSON(http.StatusOK, listCategoriesResponse{
		UserID:     principal.UserID,
		Username:   principal.Username,
		DueDate:    dueDate.Format(dateLayout),
		Categories: payload,
	})
}

func (s *Service) handleAddCategory(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	dueDate, ok := s.dueDateParam(c)
	if !ok {
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "title is required", nil)
		return
	}

	category, err := s.todos.AddCategory(c.Request.Context(), principal.UserID, body.Title, dueDate)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, addCategoryResponse{
		UserID:     principal.UserID,
		CategoryID: category.ID,
		Title:      category.Title,
		DueDate:    category.DueDate.Format(dateLayout),
	})
}

func (s *Service) handleDeleteCategory(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	categoryID, ok := s.idParam(c, "categoryId")
	if !ok {
		return
	}

	if err := s.todos.DeleteCategory(c.Request.Context(), principal.UserID, categoryID); err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleteCategoryResponse{
		UserID:     principal.UserID,
		CategoryID: categoryID,
		Message:    "Category deleted.",
	})
}

func (s *Service) handleListDetails(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	categoryID, ok := s.idParam(c, "categoryId")
	if !ok {
		return
	}

	category, details, err := s.todos.Details(c.Request.Context(), principal.UserID, categoryID)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	payload := make([]detailPayload, len(details))
	for i, detail := range details {
		payload[i] = toDetailPayload(detail)
	}
	c.JSON(http.StatusOK, allDetailsResponse{
		UserID:     principal.UserID,
		CategoryID: category.ID,
		Title:      category.Title,
		DueDate:    category.DueDate.Format(dateLayout),
		Details:    payload,
	})
}

func (s *Service) handleAddDetail(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	categoryID, ok := s.idParam(c, "categoryId")
	if !ok {
		return
	}

	var body struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Description == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "description is required", nil)
		return
	}

	category, detail, err := s.todos.AddDetail(c.Request.Context(), principal.UserID, categoryID, body.Description)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailResponse{
		UserID:      principal.UserID,
		CategoryID:  category.ID,
		DetailID:    detail.ID,
		Description: detail.Description,
		IsCompleted: detail.Completed,
	})
}

func (s *Service) handleUpdateDetail(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	categoryID, ok := s.idParam(c, "categoryId")
	if !ok {
		return
	}
	detailID, ok := s.idParam(c, "detailId")
	if !ok {
		return
	}

	var body struct {
		Description *string `json:"description"`
		IsCompleted *bool   `json:"is_completed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if body.Description == nil && body.IsCompleted == nil {
		httptransport.RespondError(c, http.StatusBadRequest, "nothing to update", nil)
		return
	}

	category, detail, err := s.todos.UpdateDetail(c.Request.Context(), principal.UserID, categoryID, detailID, body.Description, body.IsCompleted)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailResponse{
		UserID:      principal.UserID,
		CategoryID:  category.ID,
		DetailID:    detail.ID,
		Description: detail.Description,
		IsCompleted: detail.Completed,
	})
}

func (s *Service) handleDeleteDetail(c *gin.Context) {
	principal, ok := httptransport.PrincipalFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	categoryID, ok := s.idParam(c, "categoryId")
	if !ok {
		return
	}
	detailID, ok := s.idParam(c, "detailId")
	if !ok {
		return
	}

	if err := s.todos.DeleteDetail(c.Request.Context(), principal.UserID, categoryID, detailID); err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleteDetailResponse{
		UserID:     principal.UserID,
		CategoryID: categoryID,
		DetailID:   detailID,
		Message:    "Detail deleted.",
	})
}

// dueDateParam parses the required dueDate query parameter.
func (s *Service) dueDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("dueDate")
	if raw == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "dueDate query parameter is required", nil)
		return time.Time{}, false
	}
	dueDate, err := time.Parse(dateLayout, raw)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "dueDate must be formatted as "+dateLayout, nil)
		return time.Time{}, false
	}
	return dueDate, true
}

func (s *Service) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func (s *Service) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, todo.ErrCategoryNotFound):
		httptransport.RespondError(c, http.StatusNotFound, "category not found", nil)
	case errors.Is(err, todo.ErrDetailNotFound):
		httptransport.RespondError(c, http.StatusNotFound, "detail not found", nil)
	default:
		s.logger.Error("todo operation failed", "error", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func toCategoryPayload(c *todo.Category) categoryPayload {
	return categoryPayload{
		CategoryID: c.ID,
		Title:      c.Title,
		DueDate:    c.DueDate.Format(dateLayout),
	}
}

func toDetailPayload(d *todo.Detail) detailPayload {
	return detailPayload{
		DetailID:    d.ID,
		Description: d.Description,
		IsCompleted: d.Completed,
	}
}
